package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"hostelpass/internal/crypto"
	"hostelpass/internal/errors"
	"hostelpass/internal/importer"
	"hostelpass/internal/logging"
	"hostelpass/internal/models"
	"hostelpass/internal/pass"
	"hostelpass/internal/registry"
)

func newImportCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Replace the registry with the checked-in residents of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			done := logging.Timed(logging.GetLogger("cli"), "import")
			defer func() { done(err) }()

			var res importer.Result
			if dryRun {
				res, err = importer.ReadFile(args[0])
			} else {
				var store *registry.Store
				if store, err = openStore(a.cfg.Storage); err != nil {
					return err
				}
				res, err = importer.ImportFile(args[0], store)
			}
			if err != nil {
				return err
			}
			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("%s %d residents (%d rows skipped)", verb, len(res.Residents), res.Skipped()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the workbook without writing the registry")
	return cmd
}

func newGenMasterKeyCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "genmasterkey",
		Short: "Write a new master key for registry encryption",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.Storage.MasterKeyFile
			}
			if err := crypto.WriteMasterKey(out); err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "write master key")
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("Master key written to %s", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "key file (default storage.master_key_file)")
	return cmd
}

type queryFlags struct {
	block, gender, status, search, sort string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.block, "block", "", "only this block (HA..HH)")
	cmd.Flags().StringVar(&f.gender, "gender", "", "only Male or Female")
	cmd.Flags().StringVar(&f.status, "status", "", "only Local or International")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "substring of student id, name, programme or room")
	cmd.Flags().StringVar(&f.sort, "sort", "", "name-asc, name-desc, block or room")
}

func (f *queryFlags) query() registry.Query {
	return registry.Query{
		Block:  models.Block(f.block),
		Gender: models.Gender(f.gender),
		Status: models.Status(f.status),
		Search: f.search,
		Sort:   f.sort,
	}
}

func newListCmd(a *app) *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print residents from the local registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(a.cfg.Storage)
			if err != nil {
				return err
			}
			residents, err := store.List()
			if err != nil {
				return err
			}
			if q := qf.query(); !q.IsZero() {
				residents = q.Apply(residents)
			}
			return printResidents(cmd.OutOrStdout(), residents)
		},
	}
	qf.register(cmd)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print occupancy by block, gender and residency",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(a.cfg.Storage)
			if err != nil {
				return err
			}
			residents, err := store.List()
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), registry.Summarize(residents))
		},
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <text>",
		Short: "Show the resident id a scanned pass text resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := pass.ExtractID(args[0])
			if !ok {
				return errors.New(errors.ErrNotFound, pass.NoIDMessage)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func printResidents(w io.Writer, residents []models.Resident) error {
	if len(residents) == 0 {
		fmt.Fprintln(w, pterm.Info.Sprint("No residents"))
		return nil
	}
	data := pterm.TableData{{"ID", "Student ID", "Name", "Programme", "Block", "Room", "Gender", "Status"}}
	for _, r := range residents {
		data = append(data, []string{
			r.ID, r.StudentID, r.Name, r.Programme,
			string(r.Block), r.RoomNumber, string(r.Gender), string(r.Status),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "render table")
	}
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "%d residents\n", len(residents))
	return nil
}

func printStats(w io.Writer, st registry.Stats) error {
	data := pterm.TableData{{"Group", "Residents"}}
	for _, b := range st.Blocks {
		data = append(data, []string{"Block " + string(b.Block), strconv.Itoa(b.Count)})
	}
	for _, g := range sortedKeys(st.Gender) {
		data = append(data, []string{g, strconv.Itoa(st.Gender[models.Gender(g)])})
	}
	for _, s := range sortedKeys(st.Status) {
		data = append(data, []string{s, strconv.Itoa(st.Status[models.Status(s)])})
	}
	data = append(data, []string{"Total", strconv.Itoa(st.Total)})
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "render table")
	}
	fmt.Fprintln(w, table)
	return nil
}

func sortedKeys[K ~string](m map[K]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
