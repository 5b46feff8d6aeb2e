// Command tenantctl runs operator tasks that have no HTTP surface:
// schema migrations, hard tenant purges and platform user provisioning.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal"
	"github.com/saod-ux/saas-project-sub000/internal/docstore"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/postgres"
	"github.com/saod-ux/saas-project-sub000/internal/service"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

const usage = `usage: tenantctl <command> [args]

commands:
  migrate [up|status]                 apply or list database migrations
  purge <slug>                        permanently delete a tenant and all of its data
  user -email <email> [-id <uuid>] [-name <name>] [-platform-admin]
                                      create or update a global user
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "tenantctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	switch args[0] {
	case "migrate":
		return migrate(cfg, args[1:], logger)
	case "purge":
		return purge(ctx, cfg, args[1:], out, logger)
	case "user":
		return upsertUser(ctx, cfg, args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func migrate(cfg *internal.Config, args []string, logger zerolog.Logger) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	db, err := sql.Open("postgres", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	switch action {
	case "up":
		if err := internal.RunMigrations(db); err != nil {
			return err
		}
		logger.Info().Msg("Migrations completed successfully")
		return nil
	case "status":
		return internal.MigrationStatus(db)
	default:
		return fmt.Errorf("%w: unknown migrate action %q", errUsage, action)
	}
}

func purge(ctx context.Context, cfg *internal.Config, args []string, out io.Writer, logger zerolog.Logger) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("%w: purge takes exactly one slug", errUsage)
	}
	slug := strings.ToLower(strings.TrimSpace(args[0]))

	db, err := postgres.Open(ctx, cfg.DatabaseUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	dir := postgres.NewDirectory(db)

	var publisher tenant.Publisher = tenant.NopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("tenantctl"))
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer nc.Drain()
		publisher = tenant.NewNATSPublisher(nc)
	} else {
		logger.Warn().Msg("NATS_URL not set, running servers keep cached copies until their TTL expires")
	}

	// No cache lives in this process; servers drop theirs on the published event.
	tenants := service.NewTenantService(dir, nil, publisher, nil)

	docs, err := docstore.Open(ctx, cfg.DocstorePath)
	if err != nil {
		return fmt.Errorf("document store initialization failed: %w", err)
	}
	defer docs.Close()

	t, err := tenants.Get(ctx, slug)
	if err != nil {
		return err
	}
	if err := tenants.Purge(ctx, slug); err != nil {
		return err
	}
	removed, err := docs.PurgeTenant(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("purge documents: %w", err)
	}

	logger.Info().
		Str("tenant_id", t.ID.String()).
		Str("slug", slug).
		Int64("documents", removed).
		Msg("Tenant purged")
	fmt.Fprintf(out, "purged %s (%s), %d documents removed\n", slug, t.ID, removed)
	return nil
}

func upsertUser(ctx context.Context, cfg *internal.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.String("id", "", "user id; generated when empty")
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "display name")
	platformAdmin := fs.Bool("platform-admin", false, "grant platform operator access")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: -email is required", errUsage)
	}

	user := &domain.User{
		Email:         strings.ToLower(strings.TrimSpace(*email)),
		Name:          strings.TrimSpace(*name),
		PlatformAdmin: *platformAdmin,
	}
	if *id == "" {
		user.ID = uuid.New()
	} else {
		parsed, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("%w: invalid -id: %v", errUsage, err)
		}
		user.ID = parsed
	}

	db, err := postgres.Open(ctx, cfg.DatabaseUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.NewDirectory(db).UpsertUser(ctx, user); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\t%s\tplatform_admin=%t\n", user.ID, user.Email, user.PlatformAdmin)
	return nil
}
