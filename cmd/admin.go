package main

import (
	"context"
	"fmt"

	"github.com/sciencehub/shx/internal/api"
	"github.com/sciencehub/shx/internal/session"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AdminAddBook uploads a new book record.
func (r *Runner) AdminAddBook(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireElevated); err != nil {
		return err
	}

	input := api.CreateBookInput{
		Title:       cmd.String("title"),
		Author:      cmd.String("author"),
		CategoryID:  cmd.String("category"),
		Difficulty:  cmd.String("difficulty"),
		Language:    cmd.String("language"),
		Description: cmd.String("description"),
		PDFPath:     cmd.String("pdf"),
		CoverPath:   cmd.String("cover"),
	}

	r.logger.Infof("uploading %q", input.Title)

	book, err := r.client.CreateBook(ctx, input)
	if err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Created book %s (%s)\n", book.Title, book.ID)
}

// AdminEditBook patches an existing book record. Only flags the user set are
// sent, so the backend leaves the rest alone.
func (r *Runner) AdminEditBook(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireElevated); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	var input api.UpdateBookInput
	set := false
	assign := func(flag string, dst **string) {
		if cmd.IsSet(flag) {
			v := cmd.String(flag)
			*dst = &v
			set = true
		}
	}
	assign("title", &input.Title)
	assign("author", &input.Author)
	assign("category", &input.CategoryID)
	assign("difficulty", &input.Difficulty)
	assign("language", &input.Language)
	assign("description", &input.Description)

	if !set {
		return fmt.Errorf("%w: nothing to update, pass at least one field flag", shared.ErrInvalidInput)
	}

	book, err := r.client.UpdateBook(ctx, id, input)
	if err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Updated book %s (%s)\n", book.Title, book.ID)
}

// AdminRemoveBook deletes a book record.
func (r *Runner) AdminRemoveBook(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireElevated); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteBook(ctx, id); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Deleted book %s\n", id)
}

// AdminAddCategory creates a category.
func (r *Runner) AdminAddCategory(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireElevated); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}

	category, err := r.client.CreateCategory(ctx, name)
	if err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Created category %s (%s)\n", category.Name, category.ID)
}
