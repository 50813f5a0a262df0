package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/storage/questionbank"
)

// loadBank seeds the question table from the static banks. Existing rows
// (matched on sanitized text) are left alone; overlaps are reported.
func (cli *commandLine) loadBank() error {
	ctx := context.Background()

	existing, err := cli.qRepo.QueryQuestions(ctx, question.QueryFilter{}, nil)
	if err != nil {
		return errors.Wrap(err, "querying existing questions")
	}
	known := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		known[question.SanitizedText(q)] = struct{}{}
	}

	var all []question.Question
	var created int
	for _, src := range questionbank.DefaultSources() {
		qs, err := src.Questions(ctx)
		if err != nil {
			return errors.Wrapf(err, "loading source %q", src.Name())
		}
		all = append(all, qs...)

		for _, q := range qs {
			key := question.SanitizedText(q)
			if _, ok := known[key]; ok {
				continue
			}
			known[key] = struct{}{}
			if _, err := cli.qRepo.CreateQuestion(ctx, q); err != nil {
				return errors.Wrapf(err, "inserting question %q", q.ID)
			}
			created++
		}
	}

	logger.Printf("loadbank: %d questions inserted", created)

	if dups := question.Duplicates(all); len(dups) > 0 {
		logger.Printf("loadbank: %d duplicated texts across sources:", len(dups))
		for _, group := range dups {
			ids := make([]string, 0, len(group))
			for _, q := range group {
				ids = append(ids, q.ID)
			}
			logger.Println(fmt.Sprintf("  %q: %v", group[0].Text, ids))
		}
	}
	return nil
}
