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

package shell

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/linefold/linefold/pkg/flt"
	"github.com/linefold/linefold/pkg/fold"
	"github.com/peterh/liner"
)

type (
	shell struct {
		hfile string

		mapper   fold.Mapper
		filter   func(line []byte) bool
		fltrCond string
	}
)

const shellHistoryFileName = ".linefold_history"

// Run starts the interactive shell for trying the fold and filter behavior
// and blocks until the user quits it
func Run() error {
	printLogo()
	s := new(shell)
	s.hfile = historyFilePath()
	s.mapper = fold.Lower
	s.run()
	return nil
}

func historyFilePath() string {
	var fileDir = os.TempDir()
	usr, err := user.Current()
	if err == nil {
		fileDir = usr.HomeDir
	}
	return filepath.Join(fileDir, shellHistoryFileName)
}

func printLogo() {
	fmt.Print("" +
		" _ _            __      _    _ \n" +
		"| (_)_ _  ___  / _|___ | |__| |\n" +
		"| | | ' \\/ -_)|  _/ _ \\| / _` |\n" +
		"|_|_|_||_\\___||_| \\___/|_\\__,_|\n\n")
}

func printError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
}

//===================== shell =====================

func (s *shell) run() {
	lnr := liner.NewLiner()
	lnr.SetCtrlCAborts(true)

	s.loadHistory(lnr)
	defer func() {
		s.saveHistory(lnr)
		_ = lnr.Close()
		fmt.Println("bye!")
	}()

	for {
		inp, err := lnr.Prompt("lf>")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
			printError(err)
			continue
		}

		inp = strings.TrimSpace(inp)
		if inp == "" {
			continue
		}

		lnr.AppendHistory(inp)
		if !s.execCmd(inp) {
			break
		}
	}
}

// execCmd handles one input line, it returns false when the shell must quit
func (s *shell) execCmd(inp string) bool {
	cmd := inp
	arg := ""
	if idx := strings.IndexByte(inp, ' '); idx > 0 {
		cmd = inp[:idx]
		arg = strings.TrimSpace(inp[idx+1:])
	}

	switch strings.ToLower(cmd) {
	case "exit", "quit":
		return false
	case "help":
		printHelp()
	case "fold":
		s.setMapper(arg)
	case "filter":
		s.setFilter(arg)
	case "test":
		s.test(arg)
	default:
		// a bare line is folded and run through the current filter
		s.test(inp)
	}
	return true
}

func (s *shell) setMapper(name string) {
	m, err := fold.ByName(name)
	if err != nil {
		printError(err)
		return
	}
	s.mapper = m
	fmt.Println("the mapper is now", name)
}

func (s *shell) setFilter(cond string) {
	if cond == "" {
		s.filter = nil
		s.fltrCond = ""
		fmt.Println("the filter is dropped")
		return
	}

	lf, err := flt.BuildLineFunc(cond)
	if err != nil {
		printError(err)
		return
	}
	s.filter = lf
	s.fltrCond = cond
	fmt.Println("the filter is now:", cond)
}

func (s *shell) test(line string) {
	rec := []byte(line)
	fold.Fold(s.mapper, rec)

	if s.filter == nil {
		fmt.Printf("%s\n", rec)
		return
	}
	if s.filter(rec) {
		fmt.Printf("%s  <- accepted by %q\n", rec, s.fltrCond)
	} else {
		fmt.Printf("%s  <- rejected by %q\n", rec, s.fltrCond)
	}
}

func printHelp() {
	fmt.Print(`
fold <lower|upper|none>  select the mapper applied to records
filter <expr>            set the record filter, e.g. filter line CONTAINS err
filter                   drop the filter
test <line>              fold the line and run it through the filter
help                     this message
exit, quit               leave the shell

any other input is treated like "test <input>"
`)
}

func (s *shell) loadHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_RDONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.ReadHistory(f); err != nil {
		printError(err)
	}
}

func (s *shell) saveHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.WriteHistory(f); err != nil {
		printError(err)
	}
}
