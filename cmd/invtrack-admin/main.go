package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"invtrack/internal/audit"
	"invtrack/internal/auth"
	"invtrack/internal/config"
	"invtrack/internal/domain"
	"invtrack/internal/store"
	"invtrack/internal/util"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: invtrack-admin <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version     Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  user-add    Create a user account\n")
		fmt.Fprintf(os.Stderr, "  export      Export the order ledgers to Parquet snapshots\n")
		fmt.Fprintf(os.Stderr, "  audit       Show recent audit log entries\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("invtrack-admin %s\n", version)

	case "user-add":
		cmdUserAdd(os.Args[2:])

	case "export":
		cmdExport(os.Args[2:])

	case "audit":
		cmdAudit(os.Args[2:])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}
}

func openStore() (*config.Config, *store.SQLiteStore) {
	cfgPath := "config/invtrack.yaml"
	if p := os.Getenv("INVTRACK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	return cfg, st
}

func cmdUserAdd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	username := fs.String("username", "", "username for the new account")
	password := fs.String("password", "", "password for the new account")
	role := fs.String("role", string(domain.RoleUser), "role: admin or user")
	fs.Parse(args)

	if *username == "" || *password == "" {
		log.Fatal("user-add requires -username and -password")
	}
	r := domain.Role(*role)
	if r != domain.RoleAdmin && r != domain.RoleUser {
		log.Fatalf("unknown role %q", *role)
	}

	_, st := openStore()
	defer st.Close()
	ctx := context.Background()

	u := &domain.User{
		Username:     *username,
		PasswordHash: auth.HashPassword(*password),
		Role:         r,
	}
	if err := st.AddUser(ctx, u); err != nil {
		log.Fatalf("adding user: %v", err)
	}

	rec := audit.NewRecorder(st, util.NewLogger("info", "text"))
	rec.Record(ctx, "invtrack-admin", domain.ActionRegisterUser,
		fmt.Sprintf("Registered user %s with role %s", u.Username, u.Role))

	fmt.Printf("created user %s (role %s)\n", u.Username, u.Role)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outDir := fs.String("out", "", "export directory (defaults to storage.export_dir)")
	fs.Parse(args)

	cfg, st := openStore()
	defer st.Close()
	ctx := context.Background()

	dir := cfg.Storage.ExportDir
	if *outDir != "" {
		dir = *outDir
	}
	exporter := store.NewParquetExporter(dir)

	sales, err := st.SalesOrders(ctx, nil)
	if err != nil {
		log.Fatalf("reading sales ledger: %v", err)
	}
	salesPath, err := exporter.ExportSalesOrders(ctx, sales)
	if err != nil {
		log.Fatalf("exporting sales ledger: %v", err)
	}

	purchases, err := st.PurchaseOrders(ctx, nil)
	if err != nil {
		log.Fatalf("reading purchase ledger: %v", err)
	}
	purchasePath, err := exporter.ExportPurchaseOrders(ctx, purchases)
	if err != nil {
		log.Fatalf("exporting purchase ledger: %v", err)
	}

	rec := audit.NewRecorder(st, util.NewLogger("info", "text"))
	rec.Record(ctx, "invtrack-admin", domain.ActionExportLedger,
		fmt.Sprintf("Exported %d sales and %d purchase orders to %s", len(sales), len(purchases), dir))

	fmt.Printf("exported %d sales orders to %s\n", len(sales), salesPath)
	fmt.Printf("exported %d purchase orders to %s\n", len(purchases), purchasePath)
}

func cmdAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	limit := fs.Int("limit", 50, "number of entries to show")
	fs.Parse(args)

	_, st := openStore()
	defer st.Close()

	entries, err := st.RecentAudit(context.Background(), *limit)
	if err != nil {
		log.Fatalf("reading audit log: %v", err)
	}

	for _, e := range entries {
		fmt.Printf("%s  %-22s %-12s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.Details)
	}
}
