// Copyright 2018-2019 The linefold Authors
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

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/linefold/linefold/pkg/fold"
	"github.com/linefold/linefold/pkg/lines"
	"github.com/linefold/linefold/pkg/pump"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
)

// Bench reads the configured file source twice - with the pump pipeline and
// with the naive buffered line reader - and prints the comparison of the two
// strategies. Both runs discard the output, so the reading and the record
// handling is all what is measured.
func Bench(ctx context.Context, cfg *Config) error {
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config; %v", err)
	}
	if cfg.Source.Type != source.SrcTypeFile {
		return fmt.Errorf("bench supports the %q source only, but type=%v",
			source.SrcTypeFile, cfg.Source.Type)
	}
	path, ok := cfg.Source.Params["Path"].(string)
	if !ok {
		return fmt.Errorf("invalid source Params=%v, Path must be a string", cfg.Source.Params)
	}

	spl, err := newSplitter(cfg)
	if err != nil {
		return err
	}
	src, err := source.NewSource(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to create source, err=%v", err)
	}

	snk, err := sink.NewSink(&sink.Config{Type: sink.SnkTypeNull})
	if err != nil {
		_ = src.Close()
		return err
	}

	p := pump.New(src, snk, spl)
	if err := p.Run(ctx); err != nil {
		return err
	}
	st := p.Stats()

	lns, bts, dur, err := benchNaive(ctx, path, cfg.Fold)
	if err != nil {
		return err
	}

	fmt.Printf("pump  : %d records, %s in %s\n",
		st.Records, humanize.Bytes(uint64(st.ReadBytes)), st.Dur)
	fmt.Printf("reader: %d records, %s in %s\n",
		lns, humanize.Bytes(uint64(bts)), dur)
	return nil
}

// benchNaive is the baseline strategy - the plain bufio backed line reader
// with the folding applied per line
func benchNaive(ctx context.Context, path string, foldName string) (int64, int64, time.Duration, error) {
	m, err := fold.ByName(foldName)
	if err != nil {
		return 0, 0, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	var lns, bts int64
	start := time.Now()
	rdr := lines.NewReader(f, 4096)
	for {
		line, err := rdr.ReadLine(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, 0, err
		}
		fold.Fold(m, line)
		lns++
		bts += int64(len(line)) + 1
	}
	return lns, bts, time.Since(start), nil
}
