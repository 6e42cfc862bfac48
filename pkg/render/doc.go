// Package render turns a [scene.Scene] into output bytes.
//
// # Sinks
//
//   - [RenderSVG]: the interactive diagram. Fonts are embedded, icons are
//     referenced through patterns, and an inline script applies hover
//     opacities and reports clicks.
//   - [RenderPNG]: a raster of the same scene drawn with gg. Icons are read
//     from a local directory when one is given; missing or vector icons leave
//     the pattern blank.
//   - [RenderJSON]: the scene description itself.
//
// All sinks read the scene and never modify it, so one scene can be exported
// to several formats concurrently.
//
//	svg := render.RenderSVG(sc, render.WithClickEndpoint("/api/events/click"))
//	png, err := render.RenderPNG(sc, render.WithScale(2), render.WithIconDir("assets/"))
//	js, err := render.RenderJSON(sc)
//
// # Formats
//
// [ParseFormats] validates the comma-separated list accepted by the CLI.
package render
