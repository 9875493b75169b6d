//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "hotel_booking/internal/adapters/http_server"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		"root", hostPort, "hotels")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// newInstance wires one API process over the shared database and lock.
func newInstance(t *testing.T, db *sql.DB, redisAddr string) *httptest.Server {
	t.Helper()
	repo := mysqlrepo.New(db)
	lock := redisad.New(redisAddr, "", 0, 5*time.Second)
	t.Cleanup(func() { _ = lock.Close() })

	hotels := app.NewHotelService(repo, lock)
	bookings := app.NewBookingService(hotels, repo)
	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(&httpserver.Handlers{
		Hotels:   hotels,
		Bookings: bookings,
		Queries:  app.NewQueryService(bookings, hotels),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}
	return res.StatusCode
}

// ---------- the test ----------
func TestHTTP_EndToEnd_Bookings(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	a := newInstance(t, db, mr.Addr())
	b := newInstance(t, db, mr.Addr())

	t.Run("booking creates its hotel once and reuses it by name", func(t *testing.T) {
		code, first := post(t, a.URL+"/bookings", `{"customerName":"R2","customerLastName":"D2","numberOfPax":2,
			"price":"10.5","currency":"eur","hotel":{"name":"Plaza","rating":5}}`)
		require.Equal(t, http.StatusCreated, code, first)
		assert.Equal(t, "10.500", first["price"])
		assert.Equal(t, "EUR", first["currency"])

		code, second := post(t, b.URL+"/bookings", `{"customerLastName":"D2","price":1,"currency":"USD","hotel":{"name":"Plaza"}}`)
		require.Equal(t, http.StatusCreated, code, second)
		assert.Equal(t, first["hotel"], second["hotel"])

		var hotels []map[string]any
		require.Equal(t, http.StatusOK, getJSON(t, a.URL+"/hotels", &hotels))
		assert.Len(t, hotels, 1)
	})

	t.Run("stats and cross-entity queries", func(t *testing.T) {
		var stats []map[string]any
		require.Equal(t, http.StatusOK, getJSON(t, a.URL+"/bookings/stats?hotelId=1", &stats))
		assert.Equal(t, []map[string]any{
			{"currency": "EUR", "sumAmount": "10.500"},
			{"currency": "USD", "sumAmount": "1.000"},
		}, stats)

		var hs []map[string]any
		require.Equal(t, http.StatusOK, getJSON(t, b.URL+"/queries/hotels?customerLastName=D2", &hs))
		require.Len(t, hs, 1)
		assert.Equal(t, "Plaza", hs[0]["name"])
	})

	t.Run("hotel with bookings cannot be deleted", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, a.URL+"/hotels/1", nil)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("concurrent creates across instances leave one hotel row", func(t *testing.T) {
		const n = 8
		var wg sync.WaitGroup
		codes := make([]int, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				url := a.URL
				if i%2 == 1 {
					url = b.URL
				}
				res, err := http.Post(url+"/bookings", "application/json",
					strings.NewReader(`{"customerLastName":"Race","hotel":{"name":"Hilton"}}`))
				if err != nil {
					return
				}
				res.Body.Close()
				codes[i] = res.StatusCode
			}(i)
		}
		wg.Wait()

		created := 0
		for _, c := range codes {
			// a request that outwaits the busy-name backoff reports a conflict
			require.Contains(t, []int{http.StatusCreated, http.StatusConflict}, c)
			if c == http.StatusCreated {
				created++
			}
		}
		assert.Positive(t, created)

		var count int
		require.NoError(t, db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM hotels WHERE name = 'Hilton'`).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
