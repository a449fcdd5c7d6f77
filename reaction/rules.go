/*
 * rules.go, part of kmcrecon.
 *
 * Copyright 2025 The kmcrecon authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package reaction

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/fileio"
	"go.uber.org/zap"
)

// Tuple is one decoded rule.
type Tuple struct {
	Kind       Kind
	Reactants  []string
	Products   []string
	Energy     float64
	EnergyText string //energy token as written
	Label      string
	Scope      []string
	Line       int
}

// ReactantLabel returns the reactants joined with "+", in record order.
func (T *Tuple) ReactantLabel() string {
	return strings.Join(T.Reactants, "+")
}

// ProductLabel returns the products joined with "+", in record order.
func (T *Tuple) ProductLabel() string {
	return strings.Join(T.Products, "+")
}

// Key identifies the rule regardless of its coordinate scope and label.
func (T *Tuple) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", T.Kind, T.ReactantLabel(), T.ProductLabel(), T.EnergyText)
}

func (T *Tuple) String() string {
	return fmt.Sprintf("[%d] %s -> %s (E=%s eV) %s", T.Kind, T.ReactantLabel(), T.ProductLabel(), T.EnergyText, T.Label)
}

// Result is what Parse gets out of a rule file.
type Result struct {
	Tuples     []Tuple //unique rules, in order of first appearance
	Malformed  []*kmc.MalformedRuleError
	Duplicates int //rule records equal to an earlier one but for the scope or label
	Records    int //lines starting with the keyword
	Negative   int //rules accepted with a negative energy
}

// Skipped returns the number of rule records that couldn't be decoded.
func (R *Result) Skipped() int {
	return len(R.Malformed)
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger for the warnings about skipped records.
func WithLogger(l *zap.Logger) Option {
	return func(P *Parser) {
		if l != nil {
			P.log = l
		}
	}
}

// WithReport sets the Report where malformed records and negative energies are recorded.
func WithReport(r *kmc.Report) Option {
	return func(P *Parser) {
		P.report = r
	}
}

// Parser decodes rule records with a Schema.
type Parser struct {
	schema Schema
	log    *zap.Logger
	report *kmc.Report
}

// NewParser returns a parser for the schema, which is validated first.
func NewParser(s Schema, opts ...Option) (*Parser, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	P := &Parser{schema: s, log: zap.NewNop()}
	for _, o := range opts {
		o(P)
	}
	return P, nil
}

// Schema returns the schema of the parser.
func (P *Parser) Schema() Schema {
	return P.schema
}

// ParseFile parses the rule file name, which may be compressed.
func (P *Parser) ParseFile(name string) (*Result, error) {
	f, err := fileio.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	res, err := P.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

// Parse reads all the rule records in r. Lines not starting with the schema keyword
// are ignored. Malformed records are skipped and returned in the Result. Only I/O
// errors make Parse fail.
func (P *Parser) Parse(r io.Reader) (*Result, error) {
	res := new(Result)
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 || tokens[0] != P.schema.Keyword {
			continue
		}
		res.Records++
		t, err := P.Decode(tokens, line)
		if err != nil {
			res.Malformed = append(res.Malformed, err)
			if P.report != nil {
				P.report.MalformedRule(err)
			}
			P.log.Warn("malformed rule skipped", zap.Int("line", line), zap.String("reason", err.Error()))
			continue
		}
		if t.Energy < 0 {
			res.Negative++
			if P.report != nil {
				P.report.NegativeEnergy(line)
			}
			P.log.Warn("rule with negative energy", zap.Int("line", line), zap.Float64("energy", t.Energy))
		}
		k := t.Key()
		if seen[k] {
			res.Duplicates++
			continue
		}
		seen[k] = true
		res.Tuples = append(res.Tuples, t)
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reaction: reading rules after line %d: %w", line, err)
	}
	return res, nil
}

// Decode decodes the tokens of one rule record, keyword included, with the layout
// for its kind.
func (P *Parser) Decode(tokens []string, line int) (Tuple, *kmc.MalformedRuleError) {
	if len(tokens) < 2 {
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Tokens: len(tokens), Reason: "no event kind"}
	}
	kt := tokens[1]
	k, err := strconv.Atoi(kt)
	if err != nil {
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens), Reason: "event kind is not an integer"}
	}
	l, ok := P.schema.Layouts[Kind(k)]
	if !ok {
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens), Reason: "unknown event kind"}
	}
	if len(tokens) < l.MinTokens {
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens), Want: l.MinTokens}
	}
	t := Tuple{
		Kind:       Kind(k),
		Reactants:  pick(tokens, l.Reactants),
		Products:   pick(tokens, l.Products),
		EnergyText: tokens[l.Energy],
		Scope:      pick(tokens, l.Scope),
		Line:       line,
	}
	if len(tokens) > l.MinTokens {
		t.Label = tokens[len(tokens)-1]
	}
	e, err := strconv.ParseFloat(t.EnergyText, 64)
	switch {
	case err != nil:
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens),
			Reason: fmt.Sprintf("energy %q at offset %d is not a number", t.EnergyText, l.Energy)}
	case math.IsNaN(e) || math.IsInf(e, 0):
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens),
			Reason: fmt.Sprintf("energy %q at offset %d is not finite", t.EnergyText, l.Energy)}
	case e < 0 && !P.schema.AllowNegative:
		return Tuple{}, &kmc.MalformedRuleError{Line: line, Kind: kt, Tokens: len(tokens),
			Reason: fmt.Sprintf("negative energy %q at offset %d", t.EnergyText, l.Energy)}
	}
	t.Energy = e
	return t, nil
}

func pick(tokens []string, offs []int) []string {
	ret := make([]string, len(offs))
	for i, o := range offs {
		ret[i] = tokens[o]
	}
	return ret
}
