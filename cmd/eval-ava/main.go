package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/schollz/progressbar/v3"

	"github.com/xzf1234/twostream-attention/ava"
	"github.com/xzf1234/twostream-attention/eval"
	"github.com/xzf1234/twostream-attention/pascal"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage:", os.Args[0], "[flags] experiments.json")
		flag.PrintDefaults()
	}
}

func main() {
	var (
		labelmapFile   = flag.String("labelmap", "", "Filename of label map")
		exclusionsFile = flag.String("exclusions", "", "Optional CSV of video_id,timestamp pairs to exclude")
		iou            = flag.Float64("iou", 0.5, "Minimum intersection-over-union to validate a true positive")
		skipUnmatched  = flag.Bool("skip-unmatched", false, "Skip ground-truth boxes with no detection at the same coordinates instead of failing")
		resultsFile    = flag.String("results", "results.txt", "File to which per-variant mAP lines are written")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	experimentsFile := flag.Arg(0)

	labelmap, err := os.Open(*labelmapFile)
	if err != nil {
		log.Fatal(err)
	}
	cats, whitelist, err := ava.ReadLabelMap(labelmap)
	labelmap.Close()
	if err != nil {
		log.Fatalln("read label map:", err)
	}
	log.Printf("categories (%d): %v", len(cats), cats)

	excluded := make(map[string]bool)
	if *exclusionsFile != "" {
		exclusions, err := os.Open(*exclusionsFile)
		if err != nil {
			log.Fatal(err)
		}
		excluded, err = ava.ReadExclusions(exclusions)
		exclusions.Close()
		if err != nil {
			log.Fatalln("read exclusions:", err)
		}
	}

	var experiments []eval.Experiment
	if err := fileutil.LoadExt(experimentsFile, &experiments); err != nil {
		log.Fatalln("load experiments:", err)
	}

	copts := eval.ConfusionOpts{SkipUnmatched: *skipUnmatched}
	var results []*eval.VariantResult
	for _, exp := range experiments {
		if len(exp.Labels) != len(exp.Detections) {
			log.Fatalf("experiment %s: %d labels for %d detection files",
				exp.Name, len(exp.Labels), len(exp.Detections))
		}
		bar := progressbar.Default(int64(len(exp.Detections)), exp.Name)
		for i, detFile := range exp.Detections {
			res, err := runVariant(exp.Labels[i], exp.GroundTruth, detFile,
				cats, whitelist, excluded, *iou, copts)
			if err != nil {
				log.Fatalf("experiment %s, variant %s: %v", exp.Name, exp.Labels[i], err)
			}
			err = fileutil.SaveExt(fmt.Sprintf("metrics-%s-%d.json", exp.Name, i), eval.FiniteMetrics(res.Metrics))
			if err != nil {
				log.Fatalln("save metrics:", err)
			}
			err = fileutil.SaveExt(fmt.Sprintf("confusion-%s-%d.json", exp.Name, i), res.Confusion)
			if err != nil {
				log.Fatalln("save confusion matrix:", err)
			}
			results = append(results, res)
			bar.Add(1)
		}
	}

	out, err := os.Create(*resultsFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := eval.WriteResults(out, *iou, results); err != nil {
		log.Fatalln("write results:", err)
	}
}

func runVariant(label, gtFile, detFile string, cats []ava.Category,
	whitelist map[int]bool, excluded map[string]bool,
	iou float64, copts eval.ConfusionOpts) (*eval.VariantResult, error) {

	gt, err := os.Open(gtFile)
	if err != nil {
		return nil, err
	}
	defer gt.Close()
	det, err := os.Open(detFile)
	if err != nil {
		return nil, err
	}
	defer det.Close()
	ev := pascal.New(cats, iou)
	return eval.RunVariant(label, gt, det, cats, whitelist, excluded, ev, iou, copts)
}
