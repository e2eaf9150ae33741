// Command epsteinbench evaluates a small fixed table of Epstein zeta
// benchmark lattices and writes their values and timings to CSV, the Go
// equivalent of the reference implementation's benchmark_epstein driver.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/epsteinlib/epsteinzeta"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()

type benchCase struct {
	name string
	nu   float64
	dim  int
	a    []float64
	x, y []float64
}

var cases = []benchCase{
	{
		name: "1d-alternating",
		nu:   1,
		dim:  1,
		a:    []float64{1},
		x:    []float64{0},
		y:    []float64{0.5},
	},
	{
		name: "3d-madelung",
		nu:   1,
		dim:  3,
		a:    []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		x:    []float64{0, 0, 0},
		y:    []float64{0.5, 0.5, 0.5},
	},
	{
		name: "2d-hexagonal",
		nu:   2,
		dim:  2,
		a:    []float64{1, 0.5, 0, math.Sqrt(3) / 2},
		x:    []float64{0, 0},
		y:    []float64{0, 0},
	},
}

func main() {
	out := flag.String("out", "", "path to write CSV results (default: stdout)")
	reg := flag.Bool("reg", false, "evaluate the regularized variant instead of the plain one")
	flag.Parse()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("cannot create output file")
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"name", "nu", "dim", "re", "im", "micros"}); err != nil {
		log.Fatal().Err(err).Msg("cannot write CSV header")
	}

	for _, c := range cases {
		log.Info().Str("case", c.name).Float64("nu", c.nu).Msg("evaluating")
		start := time.Now()
		var v complex128
		if *reg {
			v = epsteinzeta.EpsteinZetaReg(c.nu, c.dim, c.a, c.x, c.y)
		} else {
			v = epsteinzeta.EpsteinZeta(c.nu, c.dim, c.a, c.x, c.y)
		}
		elapsed := time.Since(start)

		row := []string{
			c.name,
			fmt.Sprintf("%g", c.nu),
			fmt.Sprintf("%d", c.dim),
			fmt.Sprintf("%.17g", real(v)),
			fmt.Sprintf("%.17g", imag(v)),
			fmt.Sprintf("%d", elapsed.Microseconds()),
		}
		if err := cw.Write(row); err != nil {
			log.Fatal().Err(err).Str("case", c.name).Msg("cannot write CSV row")
		}
	}
}
