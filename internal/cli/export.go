package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/store/jsonstore"
	"github.com/idilsaglam/todoquery/internal/ui"
)

func newExportCmd(e *env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the todos collection and save it as indented JSON",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := jsonstore.Resolve(out)
			if err != nil {
				return fmt.Errorf("resolving output path: %w", err)
			}

			src := e.apiClient()
			st := e.queryClient().Fetch(cmd.Context(), query.Key{"todos"}, query.FetcherOf(src.GetTodos))
			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("fetching todos: %w", err)
			}
			if st.IsError() {
				return fmt.Errorf("fetching todos: %w", st.Err)
			}
			todos, _ := query.DataAs[[]model.Todo](st)

			if err := jsonstore.Save(path, todos); err != nil {
				return fmt.Errorf("saving todos: %w", err)
			}
			e.logger.Info().Str("path", path).Int("count", len(todos)).Msg("todos exported")
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d todos to %s", len(todos), path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default ./"+jsonstore.DefaultFileName+")")
	return cmd
}
