package main

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"smtm/internal/domain/category"
	"smtm/internal/models"
)

func newCategoryCmd(a *app) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Create and list a user's categories",
	}

	categoryCmd.AddCommand(newCategoryAddCmd(a))
	categoryCmd.AddCommand(newCategoryListCmd(a))

	return categoryCmd
}

func newCategoryAddCmd(a *app) *cobra.Command {
	var userID, name, parent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category, or a subcategory with --parent",
		Long: `Creates a category owned by the user. With --parent, creates a
subcategory under the user's category with that key.

Example: admin category add --user 1234 --name Food
         admin category add --user 1234 --name Groceries --parent <categoryKey>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			e, err := category.NewService(s).Create(cmd.Context(), userID, name, parent)
			if err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Created %s %s", e.Key().Kind, e.Key().Encode())
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Owner user ID")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Category name")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent category key (creates a subcategory)")

	return cmd
}

func newCategoryListCmd(a *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's categories and subcategories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			trees, err := category.NewService(s).List(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(trees) == 0 {
				pterm.Info.WithWriter(a.out).Println("No categories")
				return nil
			}

			return pterm.DefaultTable.WithHasHeader().WithWriter(a.out).WithData(categoryTable(trees)).Render()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Owner user ID")

	return cmd
}

func categoryTable(trees []category.Tree) pterm.TableData {
	data := pterm.TableData{{"Kind", "Name", "Key"}}
	for _, t := range trees {
		data = append(data, []string{string(models.KindCategory), t.Category.Name, t.Category.Key().Encode()})
		for _, sub := range t.Subcategories {
			data = append(data, []string{string(models.KindSubcategory), "  " + sub.Name, sub.Key().Encode()})
		}
	}
	return data
}
