// Package portal talks to a Banner-style course registration portal.
//
// The portal package owns the authenticated session (cookie jar), the
// endpoints for term and subject enumeration, the advanced-search POST that
// returns a full class listing, and the independent course-calendar site the
// descriptions are mined from. Transient failures are retried with
// exponential backoff; a response without usable data degrades to ErrNoData
// rather than an error the caller has to distinguish.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies the scraper to the portal.
	UserAgent = "schedulestorm/1.0 (github.com/zerojuls/ScheduleStorm-Server)"

	// Timeout bounds every portal request.
	Timeout = 30 * time.Second

	maxRetries = 3

	noClassesMarker = "No classes were found that meet your search criteria"
)

// ErrNoData means the portal answered but had nothing for the request.
var ErrNoData = errors.New("no data returned for this request")

// Option is one value of a portal select element.
type Option struct {
	Value string
	Label string
}

// Client is an authenticated session against one university's portal.
type Client struct {
	client      *http.Client
	baseURL     string
	calendarURL string
	userID      string
	pin         string
}

// New creates a portal client. baseURL is the registration system root
// (".../prod"); calendarURL is the course calendar root the descriptions
// live under.
func New(baseURL, calendarURL, userID, pin string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		client: &http.Client{
			Timeout: Timeout,
			Jar:     jar,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		calendarURL: strings.TrimRight(calendarURL, "/") + "/",
		userID:      userID,
		pin:         pin,
	}, nil
}

// Login establishes the portal session: fetching the registration page seeds
// the session cookies, then the credential POST validates them.
func (c *Client) Login(ctx context.Context) error {
	if _, _, err := c.get(ctx, c.baseURL+"/bwskfreg.P_AltPin"); err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}

	form := url.Values{
		"sid": {c.userID},
		"PIN": {c.pin},
	}

	_, status, err := c.postForm(ctx, c.baseURL+"/twbkwbis.P_ValLogin", form)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("login rejected with status %d", status)
	}
	return nil
}

// TermOptions returns every term offered by the portal's search page,
// unfiltered. Which terms count as current is the caller's policy.
func (c *Client) TermOptions(ctx context.Context) ([]Option, error) {
	body, status, err := c.get(ctx, c.baseURL+"/bwskfcls.p_sel_crse_search")
	if err != nil {
		return nil, fmt.Errorf("fetching term page: %w", err)
	}
	if status != http.StatusOK {
		return nil, ErrNoData
	}
	return parseSelect(body, "p_term")
}

// SubjectOptions returns the subjects offered for a term.
func (c *Client) SubjectOptions(ctx context.Context, termID string) ([]Option, error) {
	form := dummySearchForm(termID)
	form.Set("sel_crse", "")
	form.Set("sel_title", "")
	form.Set("sel_from_cred", "")
	form.Set("sel_to_cred", "")
	form.Add("sel_ptrm", "%")
	form.Set("begin_hh", "0")
	form.Set("begin_mi", "0")
	form.Set("end_hh", "0")
	form.Set("end_mi", "0")
	form.Set("begin_ap", "x")
	form.Set("end_ap", "y")
	form.Set("path", "1")
	form.Set("SUB_BTN", "Advanced Search")

	body, status, err := c.postForm(ctx, c.baseURL+"/bwskfcls.P_GetCrse", form)
	if err != nil {
		return nil, fmt.Errorf("fetching subjects: %w", err)
	}
	if status != http.StatusOK {
		return nil, ErrNoData
	}
	return parseSelect(body, "sel_subj")
}

// Listing performs the advanced section search for every given subject and
// returns the raw listing document. ErrNoData means the term has no classes.
func (c *Client) Listing(ctx context.Context, termID string, subjects []string) (string, error) {
	form := dummySearchForm(termID)
	form.Set("sel_crse", "")
	form.Set("sel_title", "")
	form.Add("sel_schd", "%")
	form.Add("sel_attr", "%")
	form.Set("begin_hh", "0")
	form.Set("begin_mi", "0")
	form.Set("begin_ap", "a")
	form.Set("end_hh", "0")
	form.Set("end_mi", "0")
	form.Set("end_ap", "a")
	form.Set("SUB_BTN", "Section Search")
	form.Set("path", "1")

	for _, s := range subjects {
		form.Add("sel_subj", s)
	}

	body, status, err := c.postForm(ctx, c.baseURL+"/bwskfcls.P_GetCrse_Advanced", form)
	if err != nil {
		return "", fmt.Errorf("fetching listing: %w", err)
	}
	if status != http.StatusOK || strings.Contains(body, noClassesMarker) {
		return "", ErrNoData
	}
	return body, nil
}

// DescriptionPage fetches the calendar page for one course. ok reports a
// success status; callers treat anything else as a soft failure.
func (c *Client) DescriptionPage(ctx context.Context, subject, coursenum string) (string, bool, error) {
	u := c.calendarURL + strings.ToLower(subject) + coursenum + ".htm"
	body, status, err := c.get(ctx, u)
	if err != nil {
		return "", false, fmt.Errorf("fetching description page: %w", err)
	}
	return body, status == http.StatusOK, nil
}

// dummySearchForm builds the placeholder fields Banner's advanced search
// insists on.
func dummySearchForm(termID string) url.Values {
	form := url.Values{}
	form.Set("rsts", "dummy")
	form.Set("crn", "dummy")
	form.Set("term_in", termID)
	form.Add("sel_subj", "dummy")
	for _, k := range []string{
		"sel_day", "sel_schd", "sel_insm", "sel_camp", "sel_levl",
		"sel_sess", "sel_instr", "sel_ptrm", "sel_attr",
	} {
		form.Add(k, "dummy")
	}
	return form
}

// parseSelect extracts the options of the named select element.
func parseSelect(body, name string) ([]Option, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	sel := doc.Find(fmt.Sprintf("select[name=%s]", name)).First()
	if sel.Length() == 0 {
		return nil, ErrNoData
	}

	var options []Option
	sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		value, _ := o.Attr("value")
		options = append(options, Option{
			Value: value,
			Label: strings.TrimSpace(o.Text()),
		})
	})
	return options, nil
}

func (c *Client) get(ctx context.Context, u string) (string, int, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
}

func (c *Client) postForm(ctx context.Context, u string, form url.Values) (string, int, error) {
	encoded := form.Encode()
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// do executes the request, retrying network failures and server errors with
// exponential backoff. The request is rebuilt per attempt so a retried POST
// carries its body again. Client errors (4xx) come back as a status, not a
// retry.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (string, int, error) {
	var (
		body   string
		status int
	)

	op := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server error: status %d", resp.StatusCode)
		}

		body = string(data)
		status = resp.StatusCode
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return "", 0, err
	}
	return body, status, nil
}
