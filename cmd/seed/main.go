// Command seed provisions a tenant: the business row, its admin password
// and an optional default weekly template. It talks to Postgres directly,
// so run migrations first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/nextwaveweb/salonbook/internal/auth"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/schedule"
)

func main() {
	_ = godotenv.Load()

	var (
		slug        = flag.String("slug", "", "URL-safe tenant identifier (required)")
		name        = flag.String("name", "", "display name (required)")
		locale      = flag.String("locale", "en", "storefront locale (en or he)")
		timezone    = flag.String("timezone", "UTC", "IANA timezone for the booking window")
		notifyEmail = flag.String("notify-email", "", "address receiving booking notifications")
		password    = flag.String("password", "", "admin password (required)")
		defaultWeek = flag.String("default-week", "", `seed a weekly template, e.g. "Mon-Fri 09:00-17:00"`)
	)
	flag.Parse()

	if *slug == "" || *name == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	b := &business.Business{
		Slug:         *slug,
		Name:         *name,
		Locale:       *locale,
		Timezone:     *timezone,
		NotifyEmail:  *notifyEmail,
		PasswordHash: hash,
	}
	store := business.NewPostgresStore(pool)
	if err := store.Create(ctx, b); err != nil {
		log.Fatalf("create business: %v", err)
	}
	fmt.Printf("created business %s (%s)\n", b.Slug, b.ID)

	if *defaultWeek != "" {
		if err := seedWeek(ctx, schedule.NewPostgresTemplateStore(pool), b.ID, *defaultWeek); err != nil {
			log.Fatalf("seed week: %v", err)
		}
		fmt.Printf("seeded weekly template: %s\n", *defaultWeek)
	}
}

var dayAbbrevs = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// seedWeek fills a day range with half-hour slots, e.g. "Mon-Fri 09:00-17:00".
// The end time is exclusive.
func seedWeek(ctx context.Context, store schedule.TemplateStore, businessID, expr string) error {
	parts := strings.Fields(expr)
	if len(parts) != 2 {
		return fmt.Errorf("expected \"DAY-DAY HH:MM-HH:MM\", got %q", expr)
	}

	dayRange := strings.SplitN(strings.ToLower(parts[0]), "-", 2)
	firstDay, ok := dayAbbrevs[dayRange[0]]
	if !ok {
		return fmt.Errorf("unknown day %q", dayRange[0])
	}
	lastDay := firstDay
	if len(dayRange) == 2 {
		if lastDay, ok = dayAbbrevs[dayRange[1]]; !ok {
			return fmt.Errorf("unknown day %q", dayRange[1])
		}
	}

	clockRange := strings.SplitN(parts[1], "-", 2)
	if len(clockRange) != 2 || !schedule.ValidClock(clockRange[0]) || !schedule.ValidClock(clockRange[1]) {
		return fmt.Errorf("invalid time range %q", parts[1])
	}

	// A day holds at most 48 half-hour slots; the cap stops midnight wrap.
	var times []string
	for t := clockRange[0]; t < clockRange[1] && len(times) < 48; t = schedule.AddMinutes(t, 30) {
		times = append(times, t)
	}

	for d := firstDay; ; d = (d + 1) % 7 {
		if err := store.SetDay(ctx, businessID, d, times); err != nil {
			return err
		}
		if d == lastDay {
			return nil
		}
	}
}
