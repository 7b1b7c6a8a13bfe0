package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SeedFile lists users and the items they lend out.
type SeedFile struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Items []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   *bool  `yaml:"available"`
		} `yaml:"items"`
	} `yaml:"users"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath   = flag.String("seed", "configs/seed.yaml", "path to seed yaml")
		configPath = flag.String("config", "configs/config.yaml", "path to config yaml")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed SeedFile
	if err = yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.NewDB(cfg.Database, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, db, db, db, db, nil, domain.SystemClock{}, &logger)

	existing, err := users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]*models.User, len(existing))
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u
	}

	createdUsers, createdItems := 0, 0
	for _, su := range seed.Users {
		user, ok := byEmail[strings.ToLower(strings.TrimSpace(su.Email))]
		if !ok {
			user, err = users.CreateUser(ctx, su.Name, su.Email)
			if err != nil {
				return fmt.Errorf("create user %s: %w", su.Email, err)
			}
			createdUsers++
		}

		owned, err := items.ListOwnerItems(ctx, user.ID, models.Page{})
		if err != nil {
			return fmt.Errorf("list items of %s: %w", su.Email, err)
		}
		names := make(map[string]bool, len(owned))
		for _, it := range owned {
			names[it.Name] = true
		}

		for _, si := range su.Items {
			if names[strings.TrimSpace(si.Name)] {
				continue
			}
			available := si.Available == nil || *si.Available
			_, err := items.CreateItem(ctx, user.ID, &models.Item{Name: si.Name, Description: si.Description, Available: available})
			if errors.Is(err, domain.ErrValidation) {
				logger.Warn().Err(err).Str("item", si.Name).Msg("skip invalid item")
				continue
			}
			if err != nil {
				return fmt.Errorf("create item %s: %w", si.Name, err)
			}
			createdItems++
		}
	}

	fmt.Printf("done: users=%d items=%d\n", createdUsers, createdItems)
	return nil
}
