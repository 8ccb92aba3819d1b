// Package ghapi fetches PR review comments for `takt add --pr N`. It shells
// out to the "gh" CLI first, the same external-tool subprocess pattern used
// throughout this codebase, with a headless-browser fallback when "gh"
// isn't installed or isn't authenticated.
package ghapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Comment is one review comment on a pull request.
type Comment struct {
	Author string
	Path   string
	Body   string
}

var prURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)`)

// FetchReviewComments fetches every review comment on prURL, trying the
// "gh" CLI first and falling back to a headless-browser read of the PR's
// review page when "gh" is unavailable.
func FetchReviewComments(ctx context.Context, prURL string) ([]Comment, error) {
	comments, err := fetchViaGH(ctx, prURL)
	if err == nil {
		return comments, nil
	}
	if _, lookErr := exec.LookPath("gh"); lookErr != nil {
		return fetchViaBrowser(ctx, prURL)
	}
	return nil, fmt.Errorf("fetching PR review comments via gh: %w", err)
}

func fetchViaGH(ctx context.Context, prURL string) ([]Comment, error) {
	owner, repo, number, err := parsePRURL(prURL)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "gh", "api", fmt.Sprintf("repos/%s/%s/pulls/%s/comments", owner, repo, number))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gh api: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	var raw []struct {
		User struct {
			Login string `json:"login"`
		} `json:"user"`
		Path string `json:"path"`
		Body string `json:"body"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("parsing gh api response: %w", err)
	}

	comments := make([]Comment, 0, len(raw))
	for _, r := range raw {
		comments = append(comments, Comment{Author: r.User.Login, Path: r.Path, Body: r.Body})
	}
	return comments, nil
}

// reviewCommentSelector targets GitHub's review-comment body markup.
const reviewCommentSelector = ".review-comment .comment-body"

func fetchViaBrowser(ctx context.Context, prURL string) ([]Comment, error) {
	filesURL := strings.TrimSuffix(prURL, "/") + "/files"

	browser := rod.New().Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("launching headless browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: filesURL})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filesURL, err)
	}
	defer page.Close()

	if err := page.Timeout(30 * time.Second).WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for PR review page to load: %w", err)
	}

	elements, err := page.Elements(reviewCommentSelector)
	if err != nil {
		return nil, fmt.Errorf("scanning review comments: %w", err)
	}

	comments := make([]Comment, 0, len(elements))
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		comments = append(comments, Comment{Body: text})
	}
	return comments, nil
}

func parsePRURL(prURL string) (owner, repo, number string, err error) {
	m := prURLPattern.FindStringSubmatch(prURL)
	if m == nil {
		return "", "", "", fmt.Errorf("%q is not a github.com pull request URL", prURL)
	}
	return m[1], m[2], m[3], nil
}
