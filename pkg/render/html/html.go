// Package html wraps an SVG fragment in a minimal standalone HTML document.
//
// The wrapper knows nothing about geometry: it embeds the fragment and the
// title verbatim, so callers are responsible for passing trusted text.
package html

import "fmt"

const page = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; }
        .frame { border: 1px solid #ccc; padding: 20px; }
    </style>
</head>
<body>
    <div class="frame">
%s
    </div>
</body>
</html>
`

// Wrap returns a complete HTML document embedding svg under title.
func Wrap(svg, title string) string {
	return fmt.Sprintf(page, title, svg)
}
