package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/alexflint/go-arg"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Config    string        `arg:"-c,--config,env:EVMPAGES_CONFIG" default:"config.toml" help:"path to config.toml"`
	EnvFile   string        `arg:"--env-file" help:"dotenv file holding PRIVATE_KEY (default: .env next to the config)"`
	Dir       string        `arg:"-d,--dir" default:"." help:"directory the file picker starts in"`
	Ext       string        `arg:"-e,--ext" help:"page file extension (default: extension from config)"`
	Timeout   time.Duration `arg:"--timeout" default:"5m" help:"limit for each network operation"`
	Gitignore bool          `arg:"--gitignore" help:"hide files excluded by .gitignore"`
	Copy      bool          `arg:"--copy" help:"copy the last page transaction hash to the clipboard"`
	Verbose   bool          `arg:"-v,--verbose" help:"debug logging"`

	Publish  *PublishCmd  `arg:"subcommand:publish" help:"Publish a page"`
	Package  *PackageCmd  `arg:"subcommand:package" help:"Publish every page under a directory"`
	MainPage *MainPageCmd `arg:"subcommand:main-page" help:"Set the main page"`
	Deploy   *DeployCmd   `arg:"subcommand:deploy" help:"Compile and deploy contracts"`
	History  *HistoryCmd  `arg:"subcommand:history" help:"Show publish history"`
}

func (Args) Description() string {
	return "Publish HTML pages as transaction calldata and index them with the EVMPages contract."
}

func main() {
	var args Args
	arg.MustParse(&args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, cleanup, err := InitApp(ctx, &args)
	if err != nil {
		log.Fatal(err)
	}

	err = app.Run(ctx)
	cleanup()
	if err != nil {
		log.Fatal(err)
	}
}
