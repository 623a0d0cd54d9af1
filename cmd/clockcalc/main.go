// ABOUTME: Prints the audio clock tree settings for sample rates
// ABOUTME: Renders PLL and divider values as a lipgloss table
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var rate = flag.Int("rate", 0, "Sample rate in Hz (default: every supported rate)")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
)

func main() {
	flag.Parse()

	rates := clock.SupportedRates
	if *rate != 0 {
		rates = []int{*rate}
	}

	rows, failed := buildRows(rates)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("rate", "n1", "n2", "pll", "pll MHz", "mclk MHz", "bclk MHz", "error ppm").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row]:
				return errStyle
			default:
				return cellStyle
			}
		})

	fmt.Println(t)

	if len(failed) > 0 {
		os.Exit(1)
	}
}

// buildRows computes one table row per rate; failed marks rows whose rate
// could not be reached.
func buildRows(rates []int) ([][]string, map[int]bool) {
	rows := make([][]string, 0, len(rates))
	failed := make(map[int]bool)

	for i, r := range rates {
		cfg, err := clock.Compute(r)
		if err != nil {
			rows = append(rows, []string{fmt.Sprint(r), "-", "-", err.Error(), "-", "-", "-", "-"})
			failed[i] = true
			continue
		}
		rows = append(rows, []string{
			fmt.Sprint(r),
			fmt.Sprint(cfg.Prescaler),
			fmt.Sprint(cfg.Divider),
			fmt.Sprintf("%d+%d/%d", cfg.PLL.Integer, cfg.PLL.Numerator, cfg.PLL.Denominator),
			fmt.Sprintf("%.4f", cfg.PLL.OutputHz()/1e6),
			fmt.Sprintf("%.4f", cfg.MasterClockHz()/1e6),
			fmt.Sprintf("%.4f", cfg.BitClockHz()/1e6),
			fmt.Sprintf("%.2f", cfg.RateError()*1e6),
		})
	}
	return rows, failed
}
