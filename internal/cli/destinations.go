//
// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/command"
	"gitlab.com/kabes/go-pariwisata/internal/model"
	"gitlab.com/kabes/go-pariwisata/internal/query"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

func newListDestinationsCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list destinations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "city", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "category", Aliases: []string{"t"}},
			&cli.FloatFlag{Name: "min-rating", Aliases: []string{"r"}},
			&cli.UintFlag{Name: "limit", Aliases: []string{"l"}},
		},
		Action: wrap(listDestinationsCmd),
	}
}

func listDestinationsCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	destSrv := do.MustInvoke[*service.DestinationsSrv](injector)

	dests, err := destSrv.ListDestinations(ctx, &query.ListDestinationsQuery{
		City:      clicmd.String("city"),
		Category:  clicmd.String("category"),
		MinRating: clicmd.Float("min-rating"),
		Limit:     uint(clicmd.Uint("limit")),
	})
	if err != nil {
		return aerr.Wrapf(err, "get destinations list error")
	}

	printDestinations(os.Stdout, dests)

	return nil
}

func printDestinations(out io.Writer, dests []*model.Destination) {
	fmt.Fprintf(out, "%-6s | %-30s | %-20s | %-15s | %s\n", "ID", "Name", "City", "Category", "Rating")
	fmt.Fprintln(out, "--------------------------------------------------------------------------------------------")

	for _, d := range dests {
		fmt.Fprintf(out, "%-6d | %-30s | %-20s | %-15s | %0.1f\n", d.ID, d.Name, d.City, d.Category, d.Rating)
	}

	fmt.Fprintf(out, "\nTotal: %d\n", len(dests))
}

//-------------------------------------------------------------

func newAddDestinationCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add new destination",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Aliases: []string{"n"}},
			&cli.StringFlag{Name: "city", Required: true, Aliases: []string{"c"}},
			&cli.StringFlag{Name: "category", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
			&cli.FloatFlag{Name: "rating", Aliases: []string{"r"}},
		},
		Action: wrap(addDestinationCmd),
	}
}

func addDestinationCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	destSrv := do.MustInvoke[*service.DestinationsSrv](injector)

	res, err := destSrv.AddDestination(ctx, &command.AddDestinationCmd{
		Name:        clicmd.String("name"),
		City:        clicmd.String("city"),
		Category:    clicmd.String("category"),
		Description: clicmd.String("description"),
		Rating:      clicmd.Float("rating"),
	})
	if err != nil {
		return aerr.Wrapf(err, "add destination error")
	}

	//nolint:forbidigo
	fmt.Printf("Destination added; id=%d\n", res.DestinationID)

	return nil
}

//-------------------------------------------------------------

func newDeleteDestinationCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "delete destination",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true},
		},
		Action: wrap(deleteDestinationCmd),
	}
}

func deleteDestinationCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	destSrv := do.MustInvoke[*service.DestinationsSrv](injector)

	if err := destSrv.DeleteDestination(ctx, &command.DeleteDestinationCmd{ID: clicmd.Int64("id")}); err != nil {
		return aerr.Wrapf(err, "delete destination error")
	}

	//nolint:forbidigo
	fmt.Println("Destination deleted")

	return nil
}
