package opentdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt})
}

func jsonResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchQuestionsUsesDefaultAmountWhenNonPositive(t *testing.T) {
	var seenAmount string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenAmount = r.URL.Query().Get("amount")
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Query{})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if seenAmount != "10" {
		t.Fatalf("expected default amount 10, got %q", seenAmount)
	}
}

func TestFetchQuestionsBuildsFilteredQuery(t *testing.T) {
	var seen *http.Request

	client := NewClient(
		&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			seen = r
			return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
		})},
		WithBaseURL("http://trivia.test/api.php"),
	)

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 5, Category: 18, Difficulty: "hard"}); err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}

	if seen.URL.Host != "trivia.test" || seen.URL.Path != "/api.php" {
		t.Fatalf("unexpected request url %s", seen.URL)
	}
	params := seen.URL.Query()
	want := map[string]string{"amount": "5", "type": "multiple", "category": "18", "difficulty": "hard"}
	for key, value := range want {
		if got := params.Get(key); got != value {
			t.Fatalf("param %s = %q, want %q", key, got, value)
		}
	}
}

func TestFetchQuestionsOmitsAnyFilters(t *testing.T) {
	var seen *http.Request

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 3}); err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	params := seen.URL.Query()
	if params.Has("category") || params.Has("difficulty") {
		t.Fatalf("expected no category/difficulty filters, got %s", seen.URL.RawQuery)
	}
}

func TestFetchQuestionsPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, nil), nil
	}))

	_, err := client.FetchQuestions(context.Background(), Query{Amount: 5})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", statusErr.StatusCode, http.StatusBadGateway)
	}
}

func TestFetchQuestionsJSONDecodeError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, []byte("not-json")), nil
	}))

	_, err := client.FetchQuestions(context.Background(), Query{Amount: 3})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestFetchQuestionsNonZeroResponseCode(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		payload := apiResponse{
			ResponseCode: CodeNoResults,
			Results: []RawQuestion{
				{Question: "ignored"},
			},
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		return jsonResponse(http.StatusOK, encoded), nil
	}))

	_, err := client.FetchQuestions(context.Background(), Query{Amount: 3})
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if respErr.Code != CodeNoResults {
		t.Fatalf("code = %d, want %d", respErr.Code, CodeNoResults)
	}
}

func TestFetchQuestionsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, boom
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected transport error to be wrapped, got %v", err)
	}
}

func TestLookupCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int
		wantOK bool
	}{
		{name: "empty is any", input: "", wantID: 0, wantOK: true},
		{name: "any category", input: "Any Category", wantID: 0, wantOK: true},
		{name: "case insensitive", input: "science & nature", wantID: 17, wantOK: true},
		{name: "trimmed", input: "  Computers ", wantID: 18, wantOK: true},
		{name: "unknown", input: "Astrology", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LookupCategory(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("LookupCategory(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if ok && got.ID != tc.wantID {
				t.Fatalf("LookupCategory(%q) id = %d, want %d", tc.input, got.ID, tc.wantID)
			}
		})
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	list := Categories()
	if len(list) != 25 {
		t.Fatalf("expected 25 categories, got %d", len(list))
	}
	list[0].Name = "mutated"
	if Categories()[0].Name != AnyCategory {
		t.Fatalf("Categories exposed internal slice")
	}
}
