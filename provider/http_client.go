package provider

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient implements Client against the remote provider's REST
// API, built on resty (grounded on the retrieval pack's wearable-data
// REST client manifests) rather than a hand-rolled net/http client:
// resty's retry policy and typed-response decoding are exactly the
// authenticated, rate-limited HTTP plumbing spec.md §6 describes
// needing.
//
// Login is memoised with sync.Once per spec.md §5's "process-wide
// singleton with lazy initialisation" rule, but the client itself is
// constructed explicitly and passed in - no package-level mutable
// state (spec.md §9 redesign flag).
type HTTPClient struct {
	rc       *resty.Client
	email    string
	password string

	loginOnce sync.Once
	loginErr  error
}

// NewHTTPClient constructs an HTTPClient. baseURL is the provider API
// root; credentials come from the caller (spec.md §6's GARMIN_EMAIL/
// GARMIN_PASSWORD environment variables, read once at construction
// time by the config package, not from package-level globals).
func NewHTTPClient(baseURL, email, password string) *HTTPClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetTimeout(30 * time.Second)
	return &HTTPClient{rc: rc, email: email, password: password}
}

func (c *HTTPClient) ensureLoggedIn() error {
	c.loginOnce.Do(func() {
		resp, err := c.rc.R().
			SetBody(map[string]string{"email": c.email, "password": c.password}).
			Post("/login")
		if err != nil {
			c.loginErr = fmt.Errorf("provider: login: %w", err)
			return
		}
		if resp.IsError() {
			c.loginErr = fmt.Errorf("provider: login failed: %s", resp.Status())
			return
		}
	})
	return c.loginErr
}

func (c *HTTPClient) get(path string, result *RawJSON) error {
	if err := c.ensureLoggedIn(); err != nil {
		return err
	}
	resp, err := c.rc.R().Get(path)
	if err != nil {
		return fmt.Errorf("provider: GET %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("provider: GET %s: %s", path, resp.Status())
	}
	*result = append(RawJSON(nil), resp.Body()...)
	return nil
}

func (c *HTTPClient) GetActivity(activityID int64) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d", activityID), &out)
	return out, err
}

func (c *HTTPClient) GetActivityDetails(activityID int64, maxChart int) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d/details?maxChart=%d", activityID, maxChart), &out)
	return out, err
}

func (c *HTTPClient) GetActivitySplits(activityID int64) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d/splits", activityID), &out)
	return out, err
}

func (c *HTTPClient) GetActivityWeather(activityID int64) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d/weather", activityID), &out)
	return out, err
}

func (c *HTTPClient) GetActivityGear(activityID int64) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d/gear", activityID), &out)
	return out, err
}

func (c *HTTPClient) GetActivityHRInTimezones(activityID int64) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/activity/%d/hr-timezones", activityID), &out)
	return out, err
}

func (c *HTTPClient) GetMaxMetrics(date time.Time) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/metrics/max?date=%s", date.Format("2006-01-02")), &out)
	return out, err
}

func (c *HTTPClient) GetLactateThreshold(latest bool) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/metrics/lactate-threshold?latest=%t", latest), &out)
	return out, err
}

func (c *HTTPClient) GetDailyWeighIns(date time.Time) (RawJSON, error) {
	var out RawJSON
	err := c.get(fmt.Sprintf("/weight/%s", date.Format("2006-01-02")), &out)
	return out, err
}

// activitiesForDatePayload mirrors the documented
// {ActivitiesForDay: {payload: [...]}} envelope (spec.md §6).
type activitiesForDatePayload struct {
	ActivitiesForDay struct {
		Payload []struct {
			ActivityID int64 `json:"activityId"`
		} `json:"payload"`
	} `json:"ActivitiesForDay"`
}

func (c *HTTPClient) GetActivitiesForDate(date time.Time) ([]int64, error) {
	var raw RawJSON
	if err := c.get(fmt.Sprintf("/activities?date=%s", date.Format("2006-01-02")), &raw); err != nil {
		return nil, err
	}
	var payload activitiesForDatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("provider: decode activities-for-date: %w", err)
	}
	ids := make([]int64, len(payload.ActivitiesForDay.Payload))
	for i, p := range payload.ActivitiesForDay.Payload {
		ids[i] = p.ActivityID
	}
	return ids, nil
}
