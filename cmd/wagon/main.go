// Command wagon moves artifacts between the local filesystem and an object
// storage repository.
//
//	wagon --repository s3://my-bucket/maven put target/app.jar com/example/app/1.0/app.jar
//	wagon --repository s3://my-bucket/maven get com/example/app/1.0/app.jar ./app.jar
//	wagon --repository minio://artifacts/maven --endpoint http://localhost:9000 list
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	_ "github.com/input-output-hk/catalyst-forge-libs/wagon/backend/minio"
	_ "github.com/input-output-hk/catalyst-forge-libs/wagon/backend/s3"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "wagon:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch errors.Code(err) {
	case "":
		return 0
	case errors.CodeInvalidInput:
		return 2
	case errors.CodeNotFound:
		return 3
	case errors.CodeUnauthorized:
		return 4
	case errors.CodeForbidden:
		return 5
	case errors.CodeNetwork:
		return 6
	case errors.CodeTransferFailed:
		return 7
	case errors.CodeNotImplemented:
		return 8
	default:
		return 1
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "wagon",
		Usage:     "Transfer artifacts to and from an object storage repository",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Download a resource",
				ArgsUsage: "<resource> <destination>",
				Action:    runGet,
			},
			{
				Name:      "put",
				Usage:     "Upload a local file as a resource",
				ArgsUsage: "<source> <resource>",
				Action:    runPut,
			},
			{
				Name:   "list",
				Usage:  "List every object in the repository bucket",
				Action: runList,
			},
			{
				Name:      "ls",
				Usage:     "List a local directory beneath the repository base directory",
				ArgsUsage: "<directory>",
				Action:    runLs,
			},
			{
				Name:   "schemes",
				Usage:  "Print the registered repository schemes",
				Action: runSchemes,
			},
		},
	}
}
