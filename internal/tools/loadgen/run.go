package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
	Email       string
	Password    string
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
	Authenticated bool
}

// Summary renders the counters as key=value lines for the tool output.
func (r Result) Summary() []string {
	return []string{
		fmt.Sprintf("authenticated=%t", r.Authenticated),
		fmt.Sprintf("total_requests=%d", r.TotalRequests),
		fmt.Sprintf("failures=%d", r.Failures),
		fmt.Sprintf("status_2xx=%d", r.Status2xx),
		fmt.Sprintf("status_4xx=%d", r.Status4xx),
		fmt.Sprintf("status_5xx=%d", r.Status5xx),
	}
}

type target struct {
	path   string
	bearer bool
}

var (
	listPaths   = []string{"/api/v1/master-items", "/api/v1/users", "/api/v1/roles", "/api/v1/permissions"}
	sortFields  = []string{"item_code", "item_name", "buyer", "name", "created_at", "password"}
	perPages    = []string{"10", "20", "50", "100", "37", ""}
	searchTerms = []string{"", "ITEM", "Office", "Jane", "admin", "view"}
)

func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	gen, ok := generatorForProfile(cfg.Profile)
	if !ok {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	token := ""
	if cfg.Email != "" {
		t, err := login(ctx, client, cfg)
		if err != nil {
			return Result{}, err
		}
		token = t
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx int64
	jobs := make(chan target, cfg.Concurrency*2)
	wg := sync.WaitGroup{}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+t.path, nil)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				if t.bearer && token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}
				resp, err := client.Do(req)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				_ = resp.Body.Close()
				atomic.AddInt64(&total, 1)
				switch {
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					atomic.AddInt64(&s2xx, 1)
				case resp.StatusCode >= 400 && resp.StatusCode < 500:
					atomic.AddInt64(&s4xx, 1)
				case resp.StatusCode >= 500:
					atomic.AddInt64(&s5xx, 1)
				}
			}
		}()
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return Result{
				TotalRequests: total,
				Failures:      failures,
				Status2xx:     s2xx,
				Status4xx:     s4xx,
				Status5xx:     s5xx,
				Authenticated: token != "",
			}, nil
		case <-ticker.C:
			select {
			case jobs <- gen(rng):
			case <-ctx.Done():
			}
		}
	}
}

func pick(rng *rand.Rand, values []string) string { return values[rng.IntN(len(values))] }

// listTarget builds a list request with a random mix of valid and
// out-of-range parameters so both the happy path and the coercion path
// get traffic.
func listTarget(rng *rand.Rand) target {
	q := url.Values{}
	if s := pick(rng, searchTerms); s != "" {
		q.Set("search", s)
	}
	if pp := pick(rng, perPages); pp != "" {
		q.Set("per_page", pp)
	}
	if rng.IntN(2) == 0 {
		q.Set("sort", pick(rng, sortFields))
		q.Set("direction", pick(rng, []string{"asc", "desc", "sideways"}))
	}
	if rng.IntN(3) == 0 {
		q.Set("page", fmt.Sprint(rng.IntN(5)+1))
	}
	path := pick(rng, listPaths)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	return target{path: path, bearer: true}
}

func generatorForProfile(profile string) (func(*rand.Rand) target, bool) {
	switch strings.ToLower(profile) {
	case "browse":
		return listTarget, true
	case "", "mixed":
		return func(rng *rand.Rand) target {
			switch rng.IntN(10) {
			case 0:
				return target{path: "/api/v1/me", bearer: true}
			case 1:
				return target{path: "/api/v1/master-items/" + fmt.Sprint(rng.IntN(50)+1), bearer: true}
			case 2:
				return target{path: "/health/ready"}
			default:
				return listTarget(rng)
			}
		}, true
	case "error-heavy":
		return func(rng *rand.Rand) target {
			switch rng.IntN(4) {
			case 0:
				return target{path: "/api/v1/master-items/not-a-number", bearer: true}
			case 1:
				return target{path: "/api/v1/master-items/999999", bearer: true}
			case 2:
				return target{path: pick(rng, listPaths)}
			default:
				return listTarget(rng)
			}
		}, true
	default:
		return nil, false
	}
}

func login(ctx context.Context, client *http.Client, cfg Config) (string, error) {
	body, err := json.Marshal(map[string]string{"email": cfg.Email, "password": cfg.Password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: %s", resp.Status)
	}
	var env struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if env.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return env.Data.AccessToken, nil
}
