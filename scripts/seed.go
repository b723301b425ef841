// Command seed creates a user and sample tasks directly through the
// repository. There is no HTTP creation surface yet; this is the only
// supported way to get rows into the database besides raw SQL.
//
// Usage:
//
//	go run scripts/seed.go -email dev@smarttask.local -password changeme -tasks 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/smarttask/smarttask/internal/auth"
	"github.com/smarttask/smarttask/internal/model"
	"github.com/smarttask/smarttask/internal/repository"
)

type output struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	TaskIDs []string `json:"task_ids"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "dev@smarttask.local", "User email")
		name        = flag.String("name", "Dev User", "User display name")
		password    = flag.String("password", "", "User password (hashed before storage)")
		taskCount   = flag.Int("tasks", 3, "Number of sample tasks to create")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user, err := repo.GetOrCreateUser(ctx, &model.User{
		ID:           uuid.New().String(),
		Email:        *email,
		PasswordHash: hash,
		Name:         *name,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	taskIDs := make([]string, 0, *taskCount)
	for i := 0; i < *taskCount; i++ {
		desc := fmt.Sprintf("Sample task %d seeded for %s", i+1, user.Email)
		task := &model.Task{
			ID:          ulid.Make().String(),
			Title:       fmt.Sprintf("Sample task %d", i+1),
			Description: &desc,
			Completed:   false,
			UserID:      user.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.CreateTask(ctx, task); err != nil {
			fmt.Fprintln(os.Stderr, "create task:", err)
			os.Exit(1)
		}
		taskIDs = append(taskIDs, task.ID)
	}

	out := output{
		UserID:  user.ID,
		Email:   user.Email,
		TaskIDs: taskIDs,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println("user:", out.UserID)
		for _, id := range out.TaskIDs {
			fmt.Println("task:", id)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
