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

package pump

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/lines"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
	errors2 "github.com/pkg/errors"
)

type (
	// Stats keeps the counters of one pipeline run
	Stats struct {
		ReadCalls  int64
		ReadBytes  int64
		Records    int64
		WriteCalls int64
		WriteBytes int64
		Dur        time.Duration
	}

	// Pump is the loop which moves the bytes from a source to a sink record
	// by record. Every turn it pulls one chunk from the source, keeps it in
	// the unconsumed buffer, cuts out and writes whatever complete records
	// the buffer holds, and tells the source how many bytes it is done with.
	// The sink capacity signal flows back here and stops further reading,
	// that is the whole back-pressure story.
	//
	// A Pump runs one pipeline exactly once, for another run a new Pump
	// with a fresh source and sink pair is needed.
	Pump struct {
		src    source.Source
		snk    sink.Sink
		spl    *lines.Splitter
		buf    lines.Buffer
		stats  Stats
		logger log4g.Logger
	}
)

// ErrIncompleteRec is returned by Run when the source ends with bytes which
// never got their record delimiter
var ErrIncompleteRec = errors2.New("the source ended with an incomplete record (no trailing delimiter)")

// New creates a Pump over the source, sink and splitter provided. The Pump
// takes the ownership of src and snk, both are closed when Run returns.
func New(src source.Source, snk sink.Sink, spl *lines.Splitter) *Pump {
	p := new(Pump)
	p.src = src
	p.snk = snk
	p.spl = spl
	p.logger = log4g.GetLogger("linefold.pump")
	return p
}

// Run executes the pipeline until the source is over, the sink is full, ctx
// is closed or something breaks. Closing ctx is a clean stop, not an error.
// The run is strictly sequential - there is never more than one outstanding
// source read or sink write.
//
// When the sink reports AtCapacity in the same turn the source reports the
// end of data, the run stops by the capacity signal and a possible
// incomplete trailing record is not checked for.
//
// Whatever way the run ends, both the source and the sink are closed
// exactly once. Bytes written to the sink before a failure stay written.
func (p *Pump) Run(ctx context.Context) error {
	p.logger.Info("Running...")
	start := time.Now()

	err := p.run(ctx)

	if serr := p.src.Close(); serr != nil {
		p.logger.Warn("Could not close the source, err=", serr)
	}
	if serr := p.snk.Close(); serr != nil {
		p.logger.Warn("Could not close the sink, err=", serr)
	}

	p.stats.Dur = time.Since(start)
	p.logger.Info("Stopped, err=", err, ", stats=", p.stats.String())
	return err
}

func (p *Pump) run(ctx context.Context) error {
	for {
		res, err := p.src.Read(ctx)
		if err != nil {
			return errors2.Wrapf(err, "could not read from the source")
		}
		if res.State == source.Cancelled {
			p.logger.Info("The read is cancelled, stopping.")
			return nil
		}

		p.stats.ReadCalls++
		p.stats.ReadBytes += int64(len(res.Data))
		p.buf.Append(res.Data)

		out, consumed, ok := p.spl.Split(&p.buf)
		if ok {
			cp, err := p.snk.Write(ctx, out)
			if err != nil {
				return errors2.Wrapf(err, "could not write %d bytes to the sink", len(out))
			}

			p.stats.WriteCalls++
			p.stats.WriteBytes += int64(len(out))
			p.stats.Records += int64(bytes.Count(out, []byte{'\n'}))

			if cp != sink.More {
				p.logger.Info("The sink reported ", cp, ", stopping.")
				return nil
			}
		}

		if res.State == source.EndOfData {
			if p.buf.Len() > 0 {
				p.logger.Error("End of data, but ", p.buf.Len(), " bytes are still not terminated")
				return ErrIncompleteRec
			}
			return nil
		}

		p.src.Release(consumed)
	}
}

// Stats returns the run counters. The result makes sense after Run returns.
func (p *Pump) Stats() Stats {
	return p.stats
}

func (s Stats) String() string {
	return fmt.Sprintf("{reads=%d (%s), records=%d, writes=%d (%s), dur=%s}",
		s.ReadCalls, humanize.Bytes(uint64(s.ReadBytes)), s.Records,
		s.WriteCalls, humanize.Bytes(uint64(s.WriteBytes)), s.Dur)
}
