// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command freqmine is the thin CLI front end for the mining engine:
// it reads a transaction file, decodes an itemset.Options record from
// an optional YAML config file, wires a report.WriterSink to stdout,
// and runs one itemset.Mine invocation. All of the heavy lifting
// (parsing, option decoding, the actual algorithms) lives in the
// itemset package; this file is glue only, grounded on the teacher's
// driver/_example/main.go shape (open a connection-like handle, run
// one query, dump the rows) generalized to a one-shot CLI (SPEC_FULL.md
// §6's "cmd/freqmine" mapping).
package main

import (
	"bufio"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/freqmine/engine/itemset"
	"github.com/freqmine/engine/itemset/report"
)

func main() {
	var (
		txFile     = flag.String("transactions", "", "path to a transaction file (one transaction per line, items whitespace/comma separated, optional leading weight in brackets e.g. [2] a b c)")
		configFile = flag.String("config", "", "path to a YAML options file (see itemset.DecodeOptionsYAML)")
		quiet      = flag.Bool("quiet", false, "suppress informational logging (-Z/-z in the original CLI)")
		target     = flag.String("target", "", "override target: all|closed|maximal|generators|rules")
		algo       = flag.String("algo", "", "override algorithm: auto|basic|lists|bits|table|simple|ranges|occdlv|diffs")
		smin       = flag.Int64("smin", -1, "override minimum joint support")
	)
	flag.Parse()

	log := logrus.New()
	if *quiet {
		log.SetLevel(logrus.WarnLevel)
	}

	if *txFile == "" {
		log.Fatal("missing -transactions")
	}

	opt := itemset.DefaultOptions()
	if *configFile != "" {
		doc, err := os.ReadFile(*configFile)
		must(log, err)
		opt, err = itemset.DecodeOptionsYAML(doc)
		must(log, err)
	}
	overrides := map[string]interface{}{}
	if *target != "" {
		overrides["target"] = *target
	}
	if *algo != "" {
		overrides["algo"] = *algo
	}
	if *smin >= 0 {
		overrides["smin"] = *smin
	}
	if len(overrides) > 0 {
		var err error
		opt, err = mergeOverrides(opt, overrides)
		must(log, err)
	}

	base := itemset.NewItemBase()
	bag, err := loadTransactions(*txFile, base)
	must(log, err)

	ctx := itemset.NewContext(nil, log).WithStats(opt.CollectStats)

	sink := report.NewWriterSink(os.Stdout, func(id report.ItemID) string {
		return base.Key(itemset.ItemID(id))
	})

	rep, err := itemset.Mine(ctx, base, bag, opt, sink)
	if err != nil {
		log.WithError(err).Fatal("mining failed")
	}
	must(log, sink.Flush())

	log.WithFields(logrus.Fields{
		"run_id":   ctx.RunID,
		"reported": rep.ReportedCount(),
	}).Info("mining complete")
}

func must(log *logrus.Logger, err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// mergeOverrides re-decodes opt with a handful of CLI-flag overrides
// layered on top; itemset.DecodeOptions only knows how to build from
// scratch, so Options fields not present in raw keep opt's values via
// the flags we actually set below.
func mergeOverrides(opt itemset.Options, raw map[string]interface{}) (itemset.Options, error) {
	if v, ok := raw["target"]; ok {
		decoded, err := itemset.DecodeOptions(map[string]interface{}{"target": v})
		if err != nil {
			return opt, err
		}
		opt.Target = decoded.Target
	}
	if v, ok := raw["algo"]; ok {
		decoded, err := itemset.DecodeOptions(map[string]interface{}{"algo": v})
		if err != nil {
			return opt, err
		}
		opt.Algo = decoded.Algo
	}
	if v, ok := raw["smin"]; ok {
		if s, ok := v.(int64); ok {
			opt.SMin = s
		}
	}
	return opt, opt.Validate()
}

// loadTransactions reads one transaction per line: whitespace- or
// comma-separated item keys, with an optional leading "[weight]"
// token. Blank lines and lines starting with '#' are skipped.
func loadTransactions(path string, base *itemset.ItemBase) (*itemset.Bag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bag := itemset.NewBag(0)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		weight := itemset.Support(1)
		if strings.HasPrefix(line, "[") {
			end := strings.IndexByte(line, ']')
			if end > 0 {
				if w, err := strconv.ParseInt(line[1:end], 10, 64); err == nil {
					weight = itemset.Support(w)
				}
				line = strings.TrimSpace(line[end+1:])
			}
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		items := make([]itemset.ItemID, 0, len(fields))
		for _, f := range fields {
			items = append(items, base.Intern(f))
		}
		bag.Add(base, items, weight)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return bag, nil
}
