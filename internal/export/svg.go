package export

import (
	"fmt"
	"io"
	"strings"
)

type Point struct {
	X, Y float64
}

// Points pairs two columns of a states table.
func Points(states [][]float64, xCol, yCol int) []Point {
	pts := make([]Point, 0, len(states))
	for _, s := range states {
		if xCol < len(s) && yCol < len(s) {
			pts = append(pts, Point{s[xCol], s[yCol]})
		}
	}
	return pts
}

// TrajectorySVG draws the points as one polyline, padded by a tenth of
// the data range on each side.
func TrajectorySVG(points []Point, width, height int, strokeColor string) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("export: need at least 2 points, got %d", len(points))
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String(), nil
}

func WriteSVG(w io.Writer, points []Point, width, height int, strokeColor string) error {
	svg, err := TrajectorySVG(points, width, height, strokeColor)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}
