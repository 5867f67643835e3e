package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
)

var benchBody = []byte(`{
	"firstname": "Marcus",
	"lastname": "Antonius",
	"phone": "+39 999 777 555",
	"birthday": {"month": 1, "day": 14}
}`)

func benchCmd() *cobra.Command {
	var baseURL string
	var sizes []int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the response times of a running REST service",
		Long:  "Send POST, PUT, GET and DELETE requests and print the average time per request in microseconds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &bencher{client: http.DefaultClient, baseURL: strings.TrimSuffix(baseURL, "/"), out: cmd.OutOrStdout()}
			return b.run(sizes)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the service")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{1000, 5000, 10000}, "Number of requests per round")
	return cmd
}

type bencher struct {
	client  *http.Client
	baseURL string
	out     io.Writer
}

func (b *bencher) run(sizes []int) error {
	fmt.Fprintln(b.out)
	fmt.Fprintln(b.out, "  Elements      POST       PUT       GET    DELETE ")
	fmt.Fprintln(b.out, "---------------------------------------------------")
	for _, loops := range sizes {
		if loops < 1 {
			return fmt.Errorf("invalid size %d", loops)
		}
		firstID, _, err := b.post()
		if err != nil {
			return err
		}
		fmt.Fprintf(b.out, "%10d", loops)

		// POST requests
		var duration time.Duration
		for i := 0; i < loops; i++ {
			_, d, err := b.post()
			if err != nil {
				return err
			}
			duration += d
		}
		fmt.Fprintf(b.out, "%10d", duration.Microseconds()/int64(loops))

		for _, method := range []string{http.MethodPut, http.MethodGet, http.MethodDelete} {
			if err := b.callInLoop(firstID+1, loops, method); err != nil {
				return err
			}
		}
		if _, err := b.send(http.MethodDelete, b.friendURL(firstID), nil); err != nil {
			return err
		}
		fmt.Fprintln(b.out)
	}
	return nil
}

func (b *bencher) callInLoop(firstID int64, loops int, method string) error {
	var duration time.Duration
	for _, id := range shuffledIDs(firstID, loops) {
		var body io.Reader
		if method == http.MethodPut {
			body = bytes.NewReader(benchBody)
		}
		d, err := b.send(method, b.friendURL(id), body)
		if err != nil {
			return err
		}
		duration += d
	}
	fmt.Fprintf(b.out, "%10d", duration.Microseconds()/int64(loops))
	return nil
}

func shuffledIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func (b *bencher) friendURL(id int64) string {
	return fmt.Sprintf("%s/friends/%d", b.baseURL, id)
}

// post creates a friend and returns its id.
func (b *bencher) post() (int64, time.Duration, error) {
	req, err := http.NewRequest(http.MethodPost, b.baseURL+"/friends", bytes.NewReader(benchBody))
	if err != nil {
		return 0, 0, fmt.Errorf("could not create request: %w", err)
	}
	resBody, d, err := b.do(req)
	if err != nil {
		return 0, 0, err
	}
	var f model.Friend
	if err := json.Unmarshal(resBody, &f); err != nil {
		return 0, 0, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return f.Id, d, nil
}

func (b *bencher) send(method string, url string, body io.Reader) (time.Duration, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, fmt.Errorf("could not create request: %w", err)
	}
	_, d, err := b.do(req)
	return d, err
}

func (b *bencher) do(req *http.Request) ([]byte, time.Duration, error) {
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now()
	res, err := b.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, 0, fmt.Errorf("%s %s: %s", req.Method, req.URL, res.Status)
	}
	return resBody, time.Since(before), nil
}
