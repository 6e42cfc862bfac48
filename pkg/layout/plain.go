package layout

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Plain is the parsed form of Graphviz's plain output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// All coordinates are inches with the origin at the bottom-left.
type Plain struct {
	Scale, Width, Height float64
	Nodes                []PlainNode
	Edges                []PlainEdge
}

// PlainNode is one "node" line.
type PlainNode struct {
	Name string
	X, Y float64
}

// PlainEdge is one "edge" line; Points are the spline control points.
type PlainEdge struct {
	Tail, Head string
	Points     []Point
}

// ParsePlain parses plain output. Quoted names and labels are split with
// shell-style quoting rules, which match the DOT quoting Graphviz emits.
// Long lines continued with a trailing backslash are joined first.
func ParsePlain(data []byte) (*Plain, error) {
	pl := &Plain{Scale: 1}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var pending strings.Builder
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch fields[0] {
		case "graph":
			if err := parseGraphLine(pl, fields); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "node":
			n, err := parseNodeLine(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			pl.Nodes = append(pl.Nodes, n)
		case "edge":
			e, err := parseEdgeLine(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			pl.Edges = append(pl.Edges, e)
		case "stop":
			return pl, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pl, nil
}

func parseGraphLine(pl *Plain, f []string) error {
	if len(f) < 4 {
		return fmt.Errorf("graph line has %d fields, want 4", len(f))
	}
	nums, err := floats(f[1:4])
	if err != nil {
		return err
	}
	pl.Scale, pl.Width, pl.Height = nums[0], nums[1], nums[2]
	if pl.Scale == 0 {
		pl.Scale = 1
	}
	return nil
}

func parseNodeLine(f []string) (PlainNode, error) {
	if len(f) < 4 {
		return PlainNode{}, fmt.Errorf("node line has %d fields, want at least 4", len(f))
	}
	nums, err := floats(f[2:4])
	if err != nil {
		return PlainNode{}, err
	}
	return PlainNode{Name: f[1], X: nums[0], Y: nums[1]}, nil
}

func parseEdgeLine(f []string) (PlainEdge, error) {
	if len(f) < 4 {
		return PlainEdge{}, fmt.Errorf("edge line has %d fields, want at least 4", len(f))
	}
	n, err := strconv.Atoi(f[3])
	if err != nil {
		return PlainEdge{}, fmt.Errorf("edge point count: %w", err)
	}
	if len(f) < 4+2*n {
		return PlainEdge{}, fmt.Errorf("edge declares %d points but has %d coordinates", n, len(f)-4)
	}
	nums, err := floats(f[4 : 4+2*n])
	if err != nil {
		return PlainEdge{}, err
	}
	e := PlainEdge{Tail: f[1], Head: f[2], Points: make([]Point, n)}
	for i := range n {
		e.Points[i] = Point{X: nums[2*i], Y: nums[2*i+1]}
	}
	return e, nil
}

func floats(ss []string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", s, err)
		}
		out[i] = f
	}
	return out, nil
}
