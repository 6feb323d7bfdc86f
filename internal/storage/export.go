package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/randplay/internal/metrics"
)

type ExportData struct {
	RunMetadata
	Rewards        []float64 `json:"rewards"`
	EpisodeReturns []float64 `json:"episode_returns"`
	Terminated     []int     `json:"terminated_at"`
	Truncated      []int     `json:"truncated_at"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, records []metrics.Record) error {
	data := ExportData{
		RunMetadata:    *meta,
		Rewards:        make([]float64, len(records)),
		EpisodeReturns: metrics.EpisodeReturns(records),
		Terminated:     make([]int, 0),
		Truncated:      make([]int, 0),
	}
	for i, rec := range records {
		data.Rewards[i] = rec.Reward
		if rec.Terminated {
			data.Terminated = append(data.Terminated, rec.Step)
		}
		if rec.Truncated {
			data.Truncated = append(data.Truncated, rec.Step)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// SeriesToSVG draws values as a polyline over their index.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	minX, maxX := 0.0, float64(len(values)-1)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := (float64(i) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// RewardSVG plots the run's per-episode returns.
func RewardSVG(records []metrics.Record, width, height int) string {
	return SeriesToSVG(metrics.EpisodeReturns(records), width, height, "#00ffaa")
}
