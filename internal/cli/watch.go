package cli

import (
	"context"
	"fmt"
	"sync"

	"resumeqa/internal/common"
	"resumeqa/internal/storage"
	"resumeqa/internal/types"
	"resumeqa/internal/utils"
	"resumeqa/internal/watcher"

	"github.com/spf13/cobra"
)

var watchOpts struct {
	existing bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Parse resumes as they are dropped into the local storage container",
	Long: `Watch the container directory of the local storage backend and parse
every PDF that is added or rewritten, once its writes have settled for
app.watchDebounce. Each result is written in the selected format. Stop with
Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOpts.existing, "existing", false, "Also parse the PDFs already in the container at startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(rt *common.Runtime) error {
		local, ok := rt.Catalog.Store().(*storage.LocalStore)
		if !ok {
			return fmt.Errorf("watch requires the local storage backend, configured backend is %q", rt.Config.Storage.Backend)
		}

		ctx := cmd.Context()
		container := rt.Config.Storage.Container
		dir := local.Dir(container)

		// Startup parses and watcher callbacks share stdout
		var mu sync.Mutex
		parse := func(name string) {
			mu.Lock()
			defer mu.Unlock()
			rt.Logger.Info("Parsing resume", "resume", name, "container", container)
			err := common.RunCommand(ctx, rt.Logger, rootOpts.output, "watch",
				func(ctx context.Context) (*types.ParsedResume, error) {
					return rt.Service.Parse(ctx, name, container)
				})
			if err != nil {
				rt.Logger.LogError(err, "Failed to parse resume", "resume", name)
			}
		}

		w := watcher.New(dir, utils.IsPDF, rt.Config.App.WatchDebounce, parse, rt.Logger)
		if err := w.Start(); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		if watchOpts.existing {
			for _, name := range rt.Catalog.ListPDFNames(ctx, container) {
				parse(name)
			}
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for new resumes (Ctrl-C to stop)\n", dir)
		<-ctx.Done()
		return nil
	})
}
