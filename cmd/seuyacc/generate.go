package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/julymiaw/seuyacc/codegen"
	"github.com/julymiaw/seuyacc/describe"
	verr "github.com/julymiaw/seuyacc/error"
	"github.com/julymiaw/seuyacc/grammar"
	"github.com/julymiaw/seuyacc/internal/logger"
	"github.com/julymiaw/seuyacc/spec"
)

var generateFlags = struct {
	output      *string
	definitions *bool
	plantUML    *bool
	markdown    *bool
	debug       *bool
	noColor     *bool
}{}

func runGenerate(cmd *cobra.Command, args []string) (retErr error) {
	logger.Init(*generateFlags.debug, *generateFlags.noColor)

	grmPath := args[0]
	defer func() {
		if retErr != nil {
			var synErr *spec.SyntaxError
			if errors.As(retErr, &synErr) {
				retErr = &verr.SpecError{
					Cause:      retErr,
					FilePath:   grmPath,
					SourceName: grmPath,
					Row:        synErr.Row,
				}
			}
		}
	}()

	gram, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	ptab, report, err := grammar.Compile(gram)
	if err != nil {
		return err
	}

	for _, d := range gram.Diagnostics() {
		log.Warn(d.Message)
	}

	summary := report.Summary
	if summary.Total() > 0 {
		log.Info("conflicts",
			"shift/reduce", summary.ShiftReduce,
			"reduce/reduce", summary.ReduceReduce,
			"resolved", summary.Resolved(),
			"defaulted", summary.Defaulted())
	}
	log.Debug("automaton", "states", ptab.StateCount(), "productions", len(gram.Productions()))

	base := *generateFlags.output
	if base == "" {
		base = strings.TrimSuffix(grmPath, filepath.Ext(grmPath))
	}
	headerName := filepath.Base(base) + ".tab.h"

	src, err := codegen.GenParserSource(gram, ptab, headerName)
	if err != nil {
		return fmt.Errorf("cannot generate the parser source: %w", err)
	}
	err = writeFile(base+".tab.c", src)
	if err != nil {
		return err
	}

	if *generateFlags.definitions {
		hdr, err := codegen.GenHeader(gram, headerName)
		if err != nil {
			return fmt.Errorf("cannot generate the header: %w", err)
		}
		err = writeFile(base+".tab.h", hdr)
		if err != nil {
			return err
		}
	}

	if *generateFlags.plantUML {
		err = writeFile(base+".puml", []byte(describe.PlantUML(report)))
		if err != nil {
			return err
		}
	}

	if *generateFlags.markdown {
		err = writeFile(base+".md", []byte(describe.Markdown(report)))
		if err != nil {
			return err
		}
	}

	return nil
}

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.Builder{
		AST: ast,
	}
	return b.Build()
}

func writeFile(path string, data []byte) error {
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("cannot write an output file: %w", err)
	}
	log.Debug("wrote", "path", path, "bytes", len(data))
	return nil
}
