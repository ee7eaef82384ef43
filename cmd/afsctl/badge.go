package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/blues/afs/internal/model"
	"github.com/blues/afs/internal/repository"
	"github.com/spf13/cobra"
)

func badgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badge",
		Short: "Manage the badge catalog",
	}
	cmd.AddCommand(badgeSeedCmd())
	cmd.AddCommand(badgeListCmd())
	return cmd
}

func badgeSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Provision the configured Top Donor and First Donor badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}

			created, err := repository.NewBadgeRepository(db).EnsureBadges(cmd.Context(), []model.BadgeModel{
				{
					Name:        cfg.Badge.TopDonorName,
					Description: fmt.Sprintf("Pledged at least %v in total", cfg.Badge.TopDonorThreshold),
				},
				{
					Name:        cfg.Badge.FirstDonorName,
					Description: "Made the first pledge to a campaign",
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d badges\n", created)
			return nil
		},
	}
}

func badgeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List badges and how many supporters hold them",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}

			badges, err := repository.NewBadgeRepository(db).ListBadges(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSUPPORTERS\tLAST AWARDED")
			for _, b := range badges {
				last := "-"
				if b.DateAwarded != nil {
					last = b.DateAwarded.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", b.Id, b.Name, b.SupporterCount, last)
			}
			return w.Flush()
		},
	}
}
