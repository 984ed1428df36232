package main

import (
	"context"

	"github.com/sandeepkv93/matrixd/internal/model"
)

type taskCreator interface {
	Create(ctx context.Context, title, description string, category model.Category) (model.Task, error)
}

var sampleTasks = []struct {
	title       string
	description string
	category    model.Category
}{
	{"Fix production outage", "Check the **error budget** before paging anyone.", model.CategoryUrgentImportant},
	{"File quarterly taxes", "Due end of the week.", model.CategoryUrgentImportant},
	{"Plan next quarter", "- goals\n- hiring\n- roadmap", model.CategoryNotUrgentImportant},
	{"Book dentist appointment", "", model.CategoryNotUrgentImportant},
	{"Answer vendor emails", "Forward pricing questions to finance.", model.CategoryUrgentNotImportant},
	{"Reorganize bookmarks", "", model.CategoryNotUrgentNotImportant},
}

func seedTasks(ctx context.Context, tasks taskCreator) error {
	for _, s := range sampleTasks {
		if _, err := tasks.Create(ctx, s.title, s.description, s.category); err != nil {
			return err
		}
	}
	return nil
}
