// This program provides administrative commands for operating the platform:
// creating tenants, binding domains to them, and seeding tenant users. It
// talks to the database directly and runs outside of the request path, so
// tenant scope is established explicitly per command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus/stores/tenantdb"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/domain/userbus/stores/userdb"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/rhettharrison/platform-api/business/types/password"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/business/types/username"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"platform"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	// The user store only executes scoped queries. Registration normally
	// happens when the service binds its routes; here it happens by
	// importing the stores, so validate before running any command.
	if err := sqldb.ValidateScopedQueries(); err != nil {
		return fmt.Errorf("validating scoped queries: %w", err)
	}

	tenantBus := tenantbus.NewCore(log, tenantdb.NewStore(log, db), false)
	userBus := userbus.NewCore(log, userdb.NewStore(log, db))

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: create-tenant, add-domain, create-user")
		return nil
	}

	switch os.Args[1] {
	case "create-tenant":
		return runCreateTenant(ctx, tenantBus, os.Args[2:])
	case "add-domain":
		return runAddDomain(ctx, tenantBus, os.Args[2:])
	case "create-user":
		return runCreateUser(ctx, tenantBus, userBus, os.Args[2:])
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runCreateTenant(ctx context.Context, tb *tenantbus.Core, args []string) error {
	cmd := flag.NewFlagSet("create-tenant", flag.ExitOnError)
	nameStr := cmd.String("name", "", "Tenant display name (Required)")
	slugStr := cmd.String("slug", "", "Tenant slug, used as the subdomain label (Required)")
	cmd.Parse(args)

	if *nameStr == "" || *slugStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	tnt, err := tb.Create(ctx, tenantbus.NewTenant{
		Name: *nameStr,
		Slug: *slugStr,
	})
	if err != nil {
		return fmt.Errorf("create tenant failed: %w", err)
	}

	fmt.Printf("\nSUCCESS: Tenant created!\nID: %s\nSlug: %s\n", tnt.ID, tnt.Slug)
	return nil
}

func runAddDomain(ctx context.Context, tb *tenantbus.Core, args []string) error {
	cmd := flag.NewFlagSet("add-domain", flag.ExitOnError)
	slugStr := cmd.String("slug", "", "Slug of the tenant to bind (Required)")
	domainStr := cmd.String("domain", "", "Fully qualified domain to bind (Required)")
	primary := cmd.Bool("primary", false, "Mark the domain as the tenant's canonical domain")
	cmd.Parse(args)

	if *slugStr == "" || *domainStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	host, err := hostname.Parse(*domainStr)
	if err != nil {
		return fmt.Errorf("invalid domain: %w", err)
	}

	tnt, err := tb.QueryBySlug(ctx, *slugStr)
	if err != nil {
		return fmt.Errorf("tenant lookup failed: %w", err)
	}

	binding, err := tb.BindDomain(ctx, tenantbus.NewDomainBinding{
		TenantID:  tnt.ID,
		Domain:    host,
		IsPrimary: *primary,
	})
	if err != nil {
		return fmt.Errorf("bind domain failed: %w", err)
	}

	fmt.Printf("\nSUCCESS: Domain %s bound to tenant %s\n", binding.Domain, tnt.Slug)
	return nil
}

func runCreateUser(ctx context.Context, tb *tenantbus.Core, ub *userbus.Core, args []string) error {
	cmd := flag.NewFlagSet("create-user", flag.ExitOnError)
	slugStr := cmd.String("slug", "", "Slug of the tenant to create the user under (Required)")
	nameStr := cmd.String("name", "", "User full name (Required)")
	userStr := cmd.String("username", "", "Login username (Required)")
	passStr := cmd.String("password", "", "User password (Required)")
	roleStr := cmd.String("role", "EDITOR", "User role (ADMIN, EDITOR, VIEWER)")
	cmd.Parse(args)

	if *slugStr == "" || *nameStr == "" || *userStr == "" || *passStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	uname, err := username.Parse(*userStr)
	if err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	pass, err := password.Parse(*passStr)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	rle, err := role.Parse(*roleStr)
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	tnt, err := tb.QueryBySlug(ctx, *slugStr)
	if err != nil {
		return fmt.Errorf("tenant lookup failed: %w", err)
	}

	// Users are tenant owned, so establish the same tenant binding and
	// query scope the resolution middleware would for a request.
	ctx, err = bindTenant(ctx, tnt.ID)
	if err != nil {
		return fmt.Errorf("binding tenant: %w", err)
	}
	defer tenant.Clear(ctx)

	usr, err := ub.Create(ctx, userbus.NewUser{
		Name:     *nameStr,
		Username: uname,
		Roles:    []role.Role{rle},
		Password: pass,
	})
	if err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}

	fmt.Printf("\nSUCCESS: User created!\nID: %s\nUsername: %s\nTenant: %s\n", usr.ID, usr.Username, tnt.Slug)
	return nil
}

func bindTenant(ctx context.Context, tenantID uuid.UUID) (context.Context, error) {
	ctx = tenant.WithHolder(ctx)
	if err := tenant.Bind(ctx, tenantID); err != nil {
		return nil, err
	}

	return sqldb.AttachScope(ctx, tenantID)
}
