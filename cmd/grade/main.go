// grade runs the frame quality analyzer on an image file.
//
// Usage: grade [-strict|-lenient] photo.jpg
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/quality"
)

func main() {
	strict := flag.Bool("strict", false, "use the strict calibration")
	lenient := flag.Bool("lenient", false, "use the lenient calibration")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: grade [-strict|-lenient] <image>")
		os.Exit(2)
	}

	cfg := quality.DefaultConfig()
	switch {
	case *strict:
		cfg = quality.StrictConfig()
	case *lenient:
		cfg = quality.LenientConfig()
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res := quality.New(cfg).Analyze(data)

	fmt.Printf("verdict:    %s\n", res.Verdict)
	fmt.Printf("feedback:   %s\n", res.Feedback)
	fmt.Printf("brightness: %.1f\n", res.Metrics.Brightness)
	fmt.Printf("sharpness:  %.1f\n", res.Metrics.Sharpness)
	fmt.Printf("coverage:   %.1f\n", res.Metrics.Coverage)

	if res.Verdict == quality.Poor {
		os.Exit(1)
	}
}
