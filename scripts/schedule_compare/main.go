// Command schedule_compare diffs the schedules and events served by two
// deployments, typically before and after a dataset import or a release.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type comparison struct {
	Path              string
	BaselineStatus    int
	CandidateStatus   int
	DataMatch         bool
	Error             error
	DurationBaseline  time.Duration
	DurationCandidate time.Duration
}

func (c comparison) failed() bool {
	return c.Error != nil || c.BaselineStatus != c.CandidateStatus || !c.DataMatch
}

func main() {
	var (
		baseline  string
		candidate string
		groups    string
		timeout   time.Duration
	)

	flag.StringVar(&baseline, "baseline", "http://localhost:8080/api/v1", "Baseline API base URL")
	flag.StringVar(&candidate, "candidate", "http://localhost:8081/api/v1", "Candidate API base URL")
	flag.StringVar(&groups, "groups", "", "Comma separated group filter applied to every schedule")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	periods, err := fetchPeriods(client, baseline)
	if err != nil {
		log.Fatalf("failed to list periods: %v", err)
	}

	var results []comparison
	for _, path := range targetPaths(periods, groups) {
		results = append(results, compare(client, baseline, candidate, path))
	}

	printReport(results)

	diffs := 0
	for _, res := range results {
		if res.failed() {
			diffs++
		}
	}
	fmt.Printf("Periods: %d, Diffs: %d\n", len(periods), diffs)
	if diffs > 0 {
		os.Exit(1)
	}
}

func fetchPeriods(client *http.Client, base string) ([]string, error) {
	status, body, _, err := get(client, base, "/periods")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("periods returned status %d", status)
	}
	var periods []string
	if err := json.Unmarshal(extractData(body), &periods); err != nil {
		return nil, fmt.Errorf("decode periods: %w", err)
	}
	if len(periods) == 0 {
		return nil, errors.New("baseline has no periods")
	}
	return periods, nil
}

func targetPaths(periods []string, groups string) []string {
	paths := []string{"/periods", "/electives"}
	for _, period := range periods {
		escaped := url.PathEscape(period)
		schedule := "/schedules/" + escaped
		if groups != "" {
			schedule += "?groups=" + url.QueryEscape(groups)
		}
		paths = append(paths, schedule, "/events/"+escaped)
	}
	return paths
}

func compare(client *http.Client, baseline, candidate, path string) comparison {
	comp := comparison{Path: path}

	baseStatus, baseBody, baseDur, err := get(client, baseline, path)
	if err != nil {
		comp.Error = fmt.Errorf("baseline request failed: %w", err)
		return comp
	}
	candStatus, candBody, candDur, err := get(client, candidate, path)
	if err != nil {
		comp.Error = fmt.Errorf("candidate request failed: %w", err)
		return comp
	}

	comp.BaselineStatus = baseStatus
	comp.CandidateStatus = candStatus
	comp.DurationBaseline = baseDur
	comp.DurationCandidate = candDur
	comp.DataMatch = dataEqual(extractData(baseBody), extractData(candBody))
	return comp
}

func get(client *http.Client, base, path string) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	target := strings.TrimRight(base, "/") + path
	start := time.Now()
	resp, err := client.Get(target)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// extractData returns the envelope data, dropping meta such as the dataset
// version that always differs between deployments.
func extractData(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body
	}
	return env.Data
}

func dataEqual(a, b []byte) bool {
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return strings.TrimSpace(string(a)) == strings.TrimSpace(string(b))
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		// version is per deployment
		delete(val, "version")
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Schedule Compare Report")
	fmt.Println("=======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.failed() {
			status = "DIFF"
		}
		fmt.Printf("[%s] GET %s\n", status, res.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Baseline: %d (%s) | Candidate: %d (%s) | Data match: %t\n",
			res.BaselineStatus, res.DurationBaseline, res.CandidateStatus, res.DurationCandidate, res.DataMatch)
	}
}
