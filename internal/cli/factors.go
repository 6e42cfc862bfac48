package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// factorsCommand creates the factors command.
func (c *CLI) factorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "factors <project>",
		Short: "List the experimental factors of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sample.Load(args[0])
			if err != nil {
				return err
			}
			if p.Name != "" {
				printKeyValue("Project", p.Name)
			}
			printKeyValue("Samples", strconv.Itoa(len(p.Samples)))
			names := p.FactorNames()
			if len(names) == 0 {
				printInfo("No experimental factors")
				return nil
			}
			for _, name := range names {
				fmt.Printf("%-20s %s %s\n", StyleHighlight.Render(name), StyleNumber.Render(strconv.Itoa(len(p.Factors[name]))), StyleDim.Render("samples"))
			}
			return nil
		},
	}
}
