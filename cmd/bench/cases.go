// README: Scenario cases: health, slot-filling flows, Redis and Postgres checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	cases := r.cases()
	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		start := time.Now()
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		res.Latency = time.Since(start)
		results = append(results, res)
		fmt.Printf("[%s] %s (%s) %s\n", res.Status, res.Name, res.Latency.Round(time.Millisecond), res.Note)
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "health endpoint", Run: caseHealth},
		{Name: "clarification on unrecognized input", Run: caseClarification},
		{Name: "slot-filling end to end", Run: caseSlotFillingFlow},
		{Name: "rejection keeps current field", Run: caseRejectionRetry},
		{Name: "session snapshot present in redis", Run: caseRedisSession},
		{Name: "abandon resets conversation", Run: caseAbandonReset},
		{Name: "trip row persisted in postgres", Run: caseTripRow},
	}
}

func pass(note string) Result { return Result{Status: "PASS", Note: note} }
func fail(note string) Result { return Result{Status: "FAIL", Note: note} }
func skip(note string) Result { return Result{Status: "SKIP", Note: note} }

type outcomeResp struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt"`
	Field     string `json:"field"`
	Rejection string `json:"rejection"`
	Progress  *struct {
		Answered int `json:"answered"`
		Total    int `json:"total"`
	} `json:"progress"`
	TripID string `json:"trip_id"`
}

func (r *Runner) sendMessage(ctx context.Context, conv, message string) (*outcomeResp, error) {
	body, _ := json.Marshal(map[string]string{"message": message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/conversations/%s/messages", r.cfg.BaseURL, conv), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.Token)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	var out outcomeResp
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func newConvID() string {
	return fmt.Sprintf("bench-%d", time.Now().UnixNano())
}

func caseHealth(ctx context.Context, r *Runner) Result {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	return pass("")
}

func caseClarification(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" {
		return skip("WAYFARE_BENCH_TOKEN not set")
	}
	out, err := r.sendMessage(ctx, newConvID(), "hello")
	if err != nil {
		return fail(err.Error())
	}
	if out.Type != "clarification" {
		return fail("expected clarification, got " + out.Type)
	}
	return pass("")
}

func caseSlotFillingFlow(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" {
		return skip("WAYFARE_BENCH_TOKEN not set")
	}
	conv := newConvID()
	out, err := r.sendMessage(ctx, conv, "plan a trip to Dubai")
	if err != nil {
		return fail(err.Error())
	}
	if out.Type != "slot_filling" || out.Field != "source" {
		return fail(fmt.Sprintf("expected source question, got %s/%s", out.Type, out.Field))
	}
	for _, answer := range []string{"Chennai", "50000", "4"} {
		if out, err = r.sendMessage(ctx, conv, answer); err != nil {
			return fail(err.Error())
		}
	}
	if out.Type != "trip_ready" || out.TripID == "" {
		return fail("expected trip_ready with a trip id, got " + out.Type)
	}
	return pass("trip " + out.TripID)
}

func caseRejectionRetry(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" {
		return skip("WAYFARE_BENCH_TOKEN not set")
	}
	conv := newConvID()
	if _, err := r.sendMessage(ctx, conv, "plan a trip to Dubai from Chennai for 4 people"); err != nil {
		return fail(err.Error())
	}
	out, err := r.sendMessage(ctx, conv, "abc")
	if err != nil {
		return fail(err.Error())
	}
	if out.Rejection == "" || out.Field != "budget" {
		return fail(fmt.Sprintf("expected budget rejection, got %s/%s", out.Field, out.Rejection))
	}
	return pass("")
}

func caseRedisSession(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" || r.cfg.UID == "" {
		return skip("WAYFARE_BENCH_TOKEN or WAYFARE_BENCH_UID not set")
	}
	if r.redis == nil {
		return skip("redis not configured")
	}
	conv := newConvID()
	if _, err := r.sendMessage(ctx, conv, "plan a trip to Dubai"); err != nil {
		return fail(err.Error())
	}
	key := fmt.Sprintf("dialogue:user:%s:conversation:%s:session", r.cfg.UID, conv)
	n, err := r.redis.Exists(ctx, key).Result()
	if err != nil {
		return fail(err.Error())
	}
	if n != 1 {
		return fail("session key not found: " + key)
	}
	return pass("")
}

func caseAbandonReset(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" {
		return skip("WAYFARE_BENCH_TOKEN not set")
	}
	conv := newConvID()
	if _, err := r.sendMessage(ctx, conv, "plan a trip to Dubai"); err != nil {
		return fail(err.Error())
	}
	out, err := r.sendMessage(ctx, conv, "skip")
	if err != nil {
		return fail(err.Error())
	}
	if out.Type != "clarification" {
		return fail("expected clarification after skip, got " + out.Type)
	}
	out, err = r.sendMessage(ctx, conv, "plan a trip to Goa")
	if err != nil {
		return fail(err.Error())
	}
	if out.Type != "slot_filling" || out.Field != "source" {
		return fail("conversation did not restart cleanly")
	}
	return pass("")
}

func caseTripRow(ctx context.Context, r *Runner) Result {
	if r.cfg.Token == "" {
		return skip("WAYFARE_BENCH_TOKEN not set")
	}
	if r.db == nil {
		return skip("postgres not configured")
	}
	out, err := r.sendMessage(ctx, newConvID(), "plan a trip from Chennai to Dubai with budget 50000 for 4 people")
	if err != nil {
		return fail(err.Error())
	}
	if out.Type != "trip_ready" || out.TripID == "" {
		return fail("expected one-shot trip_ready, got " + out.Type)
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips WHERE id = $1`, out.TripID).Scan(&count); err != nil {
		return fail(err.Error())
	}
	if count != 1 {
		return fail("trip row missing for " + out.TripID)
	}
	return pass("trip " + out.TripID)
}
