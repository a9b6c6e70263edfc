package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/recotarget/distance"
)

// Usage writes the option reference.
func Usage(w io.Writer) {
	fmt.Fprint(w, `
########## USAGE ##########

Usage: recotarget [options]:

	 -p, --path       	 [path_to_samples] (see example below)
	 -t, --ntesting   	 [size of a testing sample]
	 -l, --nlearning  	 [size of a learning sample]
	 -x, --ttargets   	 [testing target code] (see examples below)
	 -y, --ltargets   	 [learning target code] (see examples below)
	 -k, --nneighbors 	 [number of nearest neighbors]
	 -m, --metric     	 [metric] (see the options below)
	 -s, --summary    	 (use to see your options summary)
	 -h, --help       	 (show what you are reading now)

	 -g, --geometry   	 [plane geometry JSON file] (default: planes 0-207)
	 -w, --workers    	 [parallel workers] (default: 1)
	     --io-limit   	 [remote read limit in bytes/s] (default: unlimited)
	     --mem-limit  	 [profile memory limit in bytes] (default: unlimited)
	     --log-level  	 [debug|info|warn|error] (default: warn)
	     --log-format 	 [text|json] (default: text)
	     --codec      	 [json|go-json] (default: go-json)

########## PATH ##########

Use the path without run number, e.g.: /data/mc_production/central_value/ana/
The following convention is assumed: path/00/00/00/0X -> files for target X
The path may also be s3://bucket/prefix or minio://host:port/bucket/prefix.

########## TARGETS ##########

Target code examples:

	 -x 145  	 (proceed targets 1, 4, 5)
	 -y 2514 	 (learn from targets 1, 2, 4, 5)

########## METRICS ##########

Available metrics:

`)
	for _, m := range distance.Metrics() {
		fmt.Fprintf(w, "\t%d - %s\n", int(m), m)
	}
	fmt.Fprintln(w)
}

// WriteSummary writes the chosen setup.
func (c *Config) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nThis is your setup:\n\n")
	fmt.Fprintf(w, "The path to event files: %s\n", c.Path)
	fmt.Fprintf(w, "The size of your testing sample = %d\n", c.NTesting)
	fmt.Fprintf(w, "The size of your learning sample = %d\n", c.NLearning)
	fmt.Fprintf(w, "The number of nearest neighbors = %d\n", c.K)
	fmt.Fprintf(w, "Targets to proceed: %s\n", c.Testing)
	fmt.Fprintf(w, "Targets to learn from: %s\n", c.Learning)
	fmt.Fprintf(w, "Your metric: %s\n", c.Metric)
	if c.Geometry != "" {
		fmt.Fprintf(w, "Plane geometry: %s\n", c.Geometry)
	}
}

// Confirm asks whether to proceed and reports true only for an answer
// starting with y or Y.
func Confirm(r io.Reader, w io.Writer) (bool, error) {
	fmt.Fprint(w, "\nDo you want to proceed [y/n]? ")

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return false, sc.Err()
	}
	answer := strings.TrimSpace(sc.Text())
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y'), nil
}
