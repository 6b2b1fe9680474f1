package report

import (
	"fmt"
	"math"
	"os"

	"github.com/giodueck/ga-tsp-go/internal/tsp"
)

// WriteTourSVG renders the closed tour described by route (a permutation
// of node indices into prob) to an SVG file at path. Adapted from the
// teacher's city-name visualizer: nodes are drawn as circles labelled by
// index and coordinate instead of a City.Name field, since tsp.Problem
// carries no names.
func WriteTourSVG(prob *tsp.Problem, route []uint32, path string) error {
	if len(route) == 0 {
		return fmt.Errorf("report: empty route")
	}

	minX, maxX := prob.Nodes[route[0]].X, prob.Nodes[route[0]].X
	minY, maxY := prob.Nodes[route[0]].Y, prob.Nodes[route[0]].Y
	for _, idx := range route {
		n := prob.Nodes[idx]
		if n.X < minX {
			minX = n.X
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}

	const padding = 80.0
	const canvasWidth = 800.0
	const canvasHeight = 600.0

	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	scale := math.Min((canvasWidth-2*padding)/spanX, (canvasHeight-2*padding)/spanY)

	transformX := func(x float64) float64 { return padding + (x-minX)*scale }
	transformY := func(y float64) float64 { return padding + (y-minY)*scale }

	svg := fmt.Sprintf(`<svg width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg">`, canvasWidth, canvasHeight)
	svg += `<defs>`
	svg += `<marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`
	svg += `<polygon points="0 0, 10 3.5, 0 7" fill="blue" />`
	svg += `</marker>`
	svg += `</defs>`

	for i := range route {
		cur := prob.Nodes[route[i]]
		next := prob.Nodes[route[(i+1)%len(route)]]

		x1, y1 := transformX(cur.X), transformY(cur.Y)
		x2, y2 := transformX(next.X), transformY(next.Y)

		dx, dy := x2-x1, y2-y1
		length := math.Sqrt(dx*dx + dy*dy)
		if length == 0 {
			continue
		}

		const circleRadius = 6.0
		offX, offY := dx/length*circleRadius, dy/length*circleRadius
		svg += fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="blue" stroke-width="2" marker-end="url(#arrowhead)" />`,
			x1+offX, y1+offY, x2-offX, y2-offY)
	}

	for _, idx := range route {
		n := prob.Nodes[idx]
		x, y := transformX(n.X), transformY(n.Y)
		svg += fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="6" fill="red" stroke="black" stroke-width="1" />`, x, y)
	}

	for _, idx := range route {
		n := prob.Nodes[idx]
		x, y := transformX(n.X), transformY(n.Y)
		textY := y - 12
		svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" font-weight="bold" fill="black">%d</text>`,
			x, textY, idx)
		coordY := textY - 14
		svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" fill="gray">(%.1f,%.1f)</text>`,
			x, coordY, n.X, n.Y)
	}

	titleY := 25.0
	svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="black">TSP Tour</text>`,
		canvasWidth/2, titleY)

	var total int64
	for i := range route {
		total += prob.Distance(route[i], route[(i+1)%len(route)])
	}
	distanceY := canvasHeight - 15
	svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="black">Total Distance: %d</text>`,
		canvasWidth/2, distanceY, total)

	svg += `</svg>`

	return os.WriteFile(path, []byte(svg), 0644)
}
