package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mytheresa/content-portal/cmd/cms/output"
	"github.com/mytheresa/content-portal/models"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the product category tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCategories(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	categories, err := models.NewCategoriesRepository(e.db).GetAllCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		output.Warning("No categories yet. Run cms seed or add some in the admin console.")
		return nil
	}
	output.Section(fmt.Sprintf("Categories (%d)", len(categories)))
	printTree(output.Out, categories)
	return nil
}

// printTree writes categories as an indented tree. Categories whose parent is missing
// are printed as roots.
func printTree(w io.Writer, categories []models.Category) {
	byID := make(map[uint]bool, len(categories))
	for _, c := range categories {
		byID[c.ID] = true
	}
	children := map[uint][]models.Category{}
	var roots []models.Category
	for _, c := range categories {
		if c.ParentID == nil || !byID[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	seen := map[uint]bool{}
	var walk func(nodes []models.Category, depth int)
	walk = func(nodes []models.Category, depth int) {
		for i, c := range nodes {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			fmt.Fprintln(w, output.TreeLine(depth, i == len(nodes)-1, c.Name, fmt.Sprintf("#%d", c.ID)))
			walk(children[c.ID], depth+1)
		}
	}
	walk(roots, 0)
}
