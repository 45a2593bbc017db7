// Command ulg2kml converts a recorded flight log to a KML track from
// the command line, using the same tiered strategy chain as the server
// but without the history database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/beaglesim/flightlog-backend-go/internal/config"
	"github.com/beaglesim/flightlog-backend-go/internal/convert"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

func main() {
	outDir := flag.String("out", ".", "output directory for the KML file")
	stride := flag.Int("stride", 0, "fallback downsampling stride (0 = default)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-out DIR] [-stride N] input.ulg\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg := config.Load()
	converter := convert.New(
		convert.NewExternalTool(cfg.ConverterTool),
		convert.NewLocalLibrary(cfg.PyulogDir, cfg.PythonCmd),
		&convert.Fallback{Stride: pick(*stride, cfg.Stride)},
	)

	out, method, err := converter.Convert(input, *outDir, func(e models.Event) {
		log.Printf("[%s] %s", e.Kind, e.Message)
	})
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
	log.Printf("KML created via %s converter", method)
	fmt.Println(out)
}

func pick(flagVal, cfgVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}
