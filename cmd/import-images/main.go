package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/cmd/import-images/importer"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/app"
	"github.com/framehubio/framehub/pkg/utils/try"
)

// EnvTaskId carries the task id this plugin runs as, set by the
// platform agent. Empty when running standalone.
const EnvTaskId = "FHUB_TASK_ID"

func main() {
	pinput := flag.String("input", "./input", "directory to import image files from")
	pproject := flag.String("project", "", "project to import into, created when missing")
	pworkspace := flag.Int("workspace", 0, "workspace holding the project")
	ptag := flag.String("tag", "", "comma separated KEY:VALUE tags put on imported items")
	pwatch := flag.Bool("watch", false, "keep running and re-import on file changes")
	psettle := flag.Duration("settle", 3*time.Second, "quiet period before a watched change triggers an import")
	flag.Parse()

	logger := log.New(os.Stderr, "[import-images] ", log.LstdFlags)

	if *pproject == "" {
		logger.Fatal("--project is required")
	}

	tag := try.To(parseTags(*ptag)).OrFatal(logger)
	client := try.To(api.FromEnv()).OrFatal(logger)

	var session *app.Session
	if t := os.Getenv(EnvTaskId); t != "" {
		taskId := try.To(strconv.Atoi(t)).OrFatal(logger)
		session = app.New(client, taskId)
	}

	im := &importer.Importer{
		Client:    client,
		Logger:    logger,
		Workspace: *pworkspace,
		Project:   *pproject,
		Tag:       tag,
		Session:   session,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := im.Run(ctx, *pinput); err != nil {
		logger.Fatalf("import failed: %s", err)
	}

	if !*pwatch {
		return
	}

	logger.Printf("watching %s for changes", *pinput)
	if err := im.Watch(ctx, *pinput, *psettle); err != nil && ctx.Err() == nil {
		logger.Fatalf("watch stopped: %s", err)
	}
	logger.Println("bye")
}

// parseTags parses comma separated KEY:VALUE pairs. Values can hold
// colons but not commas.
func parseTags(raw string) ([]tags.UserTag, error) {
	if raw == "" {
		return nil, nil
	}

	parsed := []tags.UserTag{}
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		ut := tags.UserTag{}
		if err := ut.Parse(s); err != nil {
			return nil, err
		}
		parsed = append(parsed, ut)
	}
	return parsed, nil
}
