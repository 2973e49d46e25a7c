package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/logrusorgru/aurora/v3"
	"github.com/redoonetworks/stork/internal/cli"
)

func main() {
	upCmd := flag.Bool("up", false, "migrate forward")
	downCmd := flag.Bool("down", false, "migrate backward")
	versionCmd := flag.Bool("version", false, "print the current schema version")
	initCmd := flag.Bool("init", false, "write a starter stork.yaml")

	configPath := flag.String("config", "stork.yaml", "path to the configuration file")
	target := flag.String("target", "", "target version to migrate to")

	flag.Parse()

	if *initCmd {
		if err := cli.InitCfg(*configPath); err != nil {
			fail(err.Error())
		}

		done(fmt.Sprintf("wrote %s", *configPath))
	}

	app, closer, err := cli.NewFromYaml(*configPath)
	if err != nil {
		fail(err.Error())
	}

	defer func() {
		if err := closer(); err != nil {
			fail(err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	switch {
	case *upCmd:
		if err := app.Up(ctx, *target); err != nil {
			fail(err.Error())
		}

		done("all done")
	case *downCmd:
		if err := app.Down(ctx, *target); err != nil {
			fail(err.Error())
		}

		done("all done")
	case *versionCmd:
		v, err := app.Version(ctx)
		if err != nil {
			fail(err.Error())
		}

		done(fmt.Sprintf("current version %d", v))
	default:
		fail("unknown command, expected one of -up, -down, -version, -init")
	}
}

func fail(msg string) {
	fmt.Println(aurora.Red("stork: "), msg)
	os.Exit(1)
}

func done(msg string) {
	fmt.Println(aurora.Green("stork: "), msg)
	os.Exit(0)
}
