package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riordanmr/appts/internal/config"
	"github.com/riordanmr/appts/internal/db"
)

// The simulator throws concurrent bookings at a single day's slot grid.
// Most requests collide on purpose; the interesting numbers are how many
// win with 201 and how many lose cleanly with 409. At the end it checks
// the database for overlapping scheduled appointments per stylist, which
// should always come back zero.

type SimConfig struct {
	APIBaseURL  string
	Workers     int
	Requests    int
	TargetDate  string
	PostgresDSN string
}

type Metrics struct {
	Total    int64
	Created  int64
	Conflict int64
	Error    int64
}

func (m *Metrics) Record(status int) {
	atomic.AddInt64(&m.Total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.Created, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.Conflict, 1)
	default:
		atomic.AddInt64(&m.Error, 1)
	}
}

type DataPool struct {
	Customers []uuid.UUID
	Stylists  []uuid.UUID
	Services  []uuid.UUID
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadSimConfig()
	log.Printf("config: workers=%d requests=%d date=%s base_url=%s",
		cfg.Workers, cfg.Requests, cfg.TargetDate, cfg.APIBaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	pool, err := loadDataPool(ctx, pgPool)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}
	log.Printf("loaded: %d customers, %d stylists, %d services",
		len(pool.Customers), len(pool.Stylists), len(pool.Services))

	metrics := runBookingStorm(cfg, pool)

	log.Printf("results: total=%d created=%d conflict=%d error=%d",
		metrics.Total, metrics.Created, metrics.Conflict, metrics.Error)

	overlaps, err := countOverlaps(context.Background(), pgPool, cfg.TargetDate)
	if err != nil {
		log.Fatalf("overlap check: %v", err)
	}
	if overlaps > 0 {
		log.Fatalf("FAIL: found %d overlapping scheduled appointment pairs on %s", overlaps, cfg.TargetDate)
	}
	log.Printf("PASS: no overlapping scheduled appointments on %s", cfg.TargetDate)
}

func loadSimConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	return SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Workers:     getInt("SIM_WORKERS", 20),
		Requests:    getInt("SIM_REQUESTS", 500),
		TargetDate:  getEnv("SIM_TARGET_DATE", time.Now().AddDate(0, 0, 2).Format("2006-01-02")),
		PostgresDSN: baseCfg.PostgresDSN,
	}
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool) (*DataPool, error) {
	dp := &DataPool{}

	collect := func(query string, dst *[]uuid.UUID) error {
		rows, err := pool.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				return err
			}
			*dst = append(*dst, id)
		}
		return rows.Err()
	}

	if err := collect(`SELECT id FROM customers LIMIT 500`, &dp.Customers); err != nil {
		return nil, err
	}
	if err := collect(`SELECT id FROM stylists WHERE active`, &dp.Stylists); err != nil {
		return nil, err
	}
	if err := collect(`SELECT id FROM services WHERE active`, &dp.Services); err != nil {
		return nil, err
	}

	if len(dp.Customers) == 0 || len(dp.Stylists) == 0 || len(dp.Services) == 0 {
		return nil, fmt.Errorf("run cmd/seed first")
	}
	return dp, nil
}

func runBookingStorm(cfg SimConfig, pool *DataPool) *Metrics {
	metrics := &Metrics{}
	client := &http.Client{Timeout: 10 * time.Second}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				status, err := postBooking(client, cfg, pool)
				if err != nil {
					log.Printf("booking request error: %v", err)
					metrics.Record(0)
					continue
				}
				metrics.Record(status)
			}
		}()
	}

	start := time.Now()
	for i := 0; i < cfg.Requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	log.Printf("storm complete in %s", time.Since(start))

	return metrics
}

func postBooking(client *http.Client, cfg SimConfig, pool *DataPool) (int, error) {
	// A narrow grid so requests pile onto the same few slots.
	hour := 9 + rand.Intn(3)
	minute := rand.Intn(2) * 30

	stylist := "any"
	if rand.Intn(4) > 0 {
		stylist = pool.Stylists[rand.Intn(len(pool.Stylists))].String()
	}

	body := map[string]string{
		"customer_id": pool.Customers[rand.Intn(len(pool.Customers))].String(),
		"service_id":  pool.Services[rand.Intn(len(pool.Services))].String(),
		"stylist_id":  stylist,
		"date":        cfg.TargetDate,
		"time":        fmt.Sprintf("%02d:%02d", hour, minute),
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	resp, err := client.Post(cfg.APIBaseURL+"/appointments", "application/json", bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// countOverlaps looks for pairs of scheduled appointments on the target
// date assigned to the same stylist whose intervals intersect.
func countOverlaps(ctx context.Context, pool *pgxpool.Pool, date string) (int, error) {
	var count int
	err := pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments a
		JOIN appointments b
		  ON a.id < b.id
		 AND a.appointment_date = b.appointment_date
		 AND a.stylist_id = b.stylist_id
		WHERE a.appointment_date = $1
		  AND a.status = 'scheduled'
		  AND b.status = 'scheduled'
		  AND (substr(a.appointment_time, 1, 2)::int * 60 + substr(a.appointment_time, 4, 2)::int)
		      < (substr(b.appointment_time, 1, 2)::int * 60 + substr(b.appointment_time, 4, 2)::int) + b.duration_minutes
		  AND (substr(b.appointment_time, 1, 2)::int * 60 + substr(b.appointment_time, 4, 2)::int)
		      < (substr(a.appointment_time, 1, 2)::int * 60 + substr(a.appointment_time, 4, 2)::int) + a.duration_minutes
	`, date).Scan(&count)
	return count, err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
