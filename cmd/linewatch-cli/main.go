/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// linewatch-cli is the operator companion to the dashboard: device
// provisioning, fault history, and aggregate statistics from the
// command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/factoryline/linewatch/pkg/admin"
	"github.com/factoryline/linewatch/pkg/api"
	"github.com/factoryline/linewatch/pkg/config"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
	"github.com/factoryline/linewatch/pkg/report"
)

// envAdminPassword supplies the admin password without a flag, keeping
// it out of shell history.
const envAdminPassword = "LINEWATCH_ADMIN_PASSWORD"

var errUsage = errors.New("usage error")

type cliEnv struct {
	cfg    *config.Config
	client *api.Client
	admin  *admin.Manager
}

type subcommand struct {
	help string
	run  func(ctx context.Context, env *cliEnv, args []string) error
}

var subcommands = map[string]subcommand{
	"devices": {help: "list, add, or remove provisioned devices", run: runDevices},
	"history": {help: "show today's resolved faults, optionally export CSV", run: runHistory},
	"stats":   {help: "aggregate fault statistics, optionally export an HTML chart", run: runStats},
	"events":  {help: "dump the raw event feed", run: runEvents},
	"hash":    {help: "generate an admin password hash for the config file", run: runHash},
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to linewatch config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		return errUsage
	}

	cmd, ok := subcommands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}

	lg := logger.Global()
	client := api.NewClient(cfg.ServerURL, cfg.APIKey, lg)

	env := &cliEnv{
		cfg:    cfg,
		client: client,
		admin:  admin.NewManager(client, cfg.AdminPasswordHash, lg),
	}

	return cmd.run(ctx, env, args[1:])
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: linewatch-cli [-config path] <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")

	for _, name := range []string{"devices", "history", "stats", "events", "hash"} {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, subcommands[name].help)
	}
}

func runDevices(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	mac := fs.String("mac", "", "Device MAC address")
	line := fs.String("line", "", "Line id to bind the device to")
	password := fs.String("password", "", "Admin password (or "+envAdminPassword+")")

	if err := fs.Parse(args); err != nil {
		return err
	}

	action := "list"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}

	if action == "list" {
		devices, online, err := env.admin.List(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%d devices, %d online\n", len(devices), online)
		fmt.Printf("%-20s %-14s %-8s %s\n", "MAC", "LINE", "STATUS", "LAST SEEN")

		for i := range devices {
			d := &devices[i]

			lastSeen := "-"
			if d.LastSeen != nil {
				lastSeen = d.LastSeen.Format(time.RFC3339)
			}

			status := d.Status
			if status == "" {
				status = "unknown"
			}

			fmt.Printf("%-20s %-14s %-8s %s\n", d.MAC, admin.LineLabel(d), status, lastSeen)
		}

		return nil
	}

	// Mutations sit behind the password gate.
	if err := authenticate(env, *password); err != nil {
		return err
	}

	switch action {
	case "add":
		if err := env.admin.Add(ctx, *mac, *line); err != nil {
			return err
		}

		fmt.Printf("Provisioned %s\n", *mac)

		return nil

	case "remove":
		if err := env.admin.Remove(ctx, *mac); err != nil {
			return err
		}

		fmt.Printf("Removed %s\n", *mac)

		return nil

	default:
		return fmt.Errorf("%w: devices action must be list, add, or remove", errUsage)
	}
}

func authenticate(env *cliEnv, password string) error {
	if password == "" {
		password = os.Getenv(envAdminPassword)
	}

	return env.admin.Authenticate(password)
}

func runHistory(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	csvPath := fs.String("csv", "", "Export the table to a CSV file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := env.client.HistoryToday(ctx)
	if err != nil {
		return err
	}

	if *csvPath != "" {
		if err := report.ExportHistoryCSV(*csvPath, entries); err != nil {
			return err
		}

		fmt.Printf("Wrote %d rows to %s\n", len(entries), *csvPath)

		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No resolved faults today")
		return nil
	}

	fmt.Printf("%-4s %-14s %-10s %-9s %-9s %-9s %s\n",
		"NO", "LINE", "AREA", "REQUEST", "START", "FINISH", "MTTR")

	for i := range entries {
		e := &entries[i]

		mttr := e.MTTR
		if mttr == "" {
			if d, ok := e.RepairDuration(); ok {
				mttr = models.FormatMTTR(d)
			}
		}

		fmt.Printf("%-4d %-14s %-10s %-9s %-9s %-9s %s\n",
			i+1, e.DisplayName, e.Area,
			clockTime(e.ReqTime), clockTime(e.StartTime), clockTime(e.FinishTime), mttr)
	}

	return nil
}

func runStats(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	days := fs.Int("days", 30, "Window size in days, ending today")
	chartPath := fs.String("chart", "", "Export an HTML chart page")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *days < 1 {
		return fmt.Errorf("%w: -days must be at least 1", errUsage)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -(*days - 1))

	entries, err := env.client.HistoryStats(ctx, start, end)
	if err != nil {
		return err
	}

	r := report.BuildStats(entries, start, end)

	if *chartPath != "" {
		if err := report.ExportChartHTML(*chartPath, r); err != nil {
			return err
		}

		fmt.Printf("Wrote chart for %d faults to %s\n", r.Total, *chartPath)

		return nil
	}

	fmt.Printf("Faults %s – %s: %d total, average repair %s\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), r.Total, models.FormatMTTR(r.AvgRepair))

	for _, area := range []string{models.AreaAssembly, models.AreaPanel, models.AreaVisor} {
		line := fmt.Sprintf("  %-9s %d", area, r.ByArea[area])
		if avg, ok := r.AvgRepairByArea[area]; ok {
			line += fmt.Sprintf(" (avg %s)", models.FormatMTTR(avg))
		}

		fmt.Println(line)
	}

	fmt.Println("By weekday:")

	for _, day := range report.WeekdayOrder {
		fmt.Printf("  %-9s %d\n", day, r.WeekdayCounts[day])
	}

	return nil
}

func runEvents(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum number of events")

	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := env.client.Events(ctx, *limit)
	if err != nil {
		return err
	}

	for i := range events {
		e := &events[i]
		fmt.Printf("%s  %s\n", e.Timestamp.Format(time.RFC3339), e.Label())
	}

	return nil
}

func runHash(_ context.Context, _ *cliEnv, args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	password := fs.String("password", "", "Password to hash (or "+envAdminPassword+")")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv(envAdminPassword)
	}

	if pw == "" {
		return fmt.Errorf("%w: hash needs -password or %s", errUsage, envAdminPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), *cost)
	if err != nil {
		return err
	}

	fmt.Println(string(hash))

	return nil
}

func clockTime(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Format("15:04:05")
}
