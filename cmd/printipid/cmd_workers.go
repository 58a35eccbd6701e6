package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/printipid/printipid/app/jobs"
	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/internal/server"
	"github.com/printipid/printipid/pkg/cache"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/queue"
	"github.com/printipid/printipid/pkg/schedule"
)

var queueWorkersFlag int

// printipid queue:work — run queue workers standalone.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			fmt.Println("Redis unavailable, falling back to the in-memory queue")
		}
		if config.QueueDriver() == "redis" && cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
		queue.UseCollection(docstore.Collection("failed_jobs"))
		jobs.Register()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// printipid schedule:run — run the scheduler standalone.
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		jobs.Register()
		server.RegisterSchedule()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  •", t)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		// One worker so dispatched jobs run in-process.
		queue.StartWorkers(ctx, 1)
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
