// client.go scrapes the Agile Store Locator (asl) WordPress plugin, it knows
// nothing about what the stores represent on a particular site.

package asl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"schoolfinder/internal/components/assert"
	"schoolfinder/internal/components/telemetry"
	"schoolfinder/internal/config"
	"schoolfinder/pkg/htmlutil"
	"strings"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_get_nonce   = "client.get-nonce"
	report_client_load_stores = "client.load-stores"
)

var (
	ErrNonceNotFound    = errors.New("asl nonce not found")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotJSON          = errors.New("response is not json")
)

// bodies shorter than this are included in diagnostics
const previewLimit = 200

var nonceRegex = regexp.MustCompile(`"nonce":"([^"]+)"`)

type Client struct {
	cfg  config.Config
	http *resty.Client
	tel  telemetry.API
}

func NewClient(cfg config.Config, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("asl_scraper", tel)

	baseUrl, err := url.Parse(cfg.BaseUrl)
	if err != nil {
		return Client{}, fmt.Errorf("asl scraper: parse base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeaders(cfg.RequestHeaders())
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	if cfg.Timeout() > 0 {
		httpClient.SetTimeout(cfg.Timeout())
	}

	telemetry.InstrumentResty(httpClient, "scrapers/asl/http", tel)

	return Client{
		cfg:  cfg,
		http: httpClient,
		tel:  tel,
	}, nil
}

// ExtractNonce returns the nonce held by the first inline script that
// contains `marker`.
func ExtractNonce(doc *goquery.Document, marker string) (string, bool) {
	for _, text := range htmlutil.ScriptTexts(doc) {
		if !strings.Contains(text, marker) {
			continue
		}
		groups := nonceRegex.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}
		return groups[1], true
	}
	return "", false
}

// GetNonce fetches the store locator page and extracts the nonce required
// by LoadStores.
func (c Client) GetNonce(ctx context.Context) (string, error) {
	nonceError := func(err error) error {
		return fmt.Errorf("asl scraper: get nonce: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.cfg.PageUrl())
	if err != nil {
		c.tel.ReportBroken(report_client_get_nonce, fmt.Errorf("fetch: %w", err))
		return "", nonceError(err)
	}
	if res.IsError() {
		c.tel.ReportWarning(report_client_get_nonce, "page status", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_get_nonce, fmt.Errorf("parse html: %w", err))
		return "", nonceError(err)
	}

	nonce, ok := ExtractNonce(doc, c.cfg.ScriptMarker)
	if !ok {
		c.tel.ReportBroken(report_client_get_nonce, ErrNonceNotFound, c.cfg.ScriptMarker)
		return "", nonceError(ErrNonceNotFound)
	}
	c.tel.ReportDebug("found nonce", nonce)
	return nonce, nil
}

// FormData is the body of the load stores request.
func (c Client) FormData(nonce string) map[string]string {
	return map[string]string{
		"action":   c.cfg.Action,
		"nonce":    nonce,
		"load_all": c.cfg.LoadAll,
		"layout":   c.cfg.Layout,
		"lang":     c.cfg.Lang,
	}
}

// LoadStores posts to the ajax endpoint and returns the decoded json body
// unchanged. Numbers are decoded as json.Number. A single attempt is made.
func (c Client) LoadStores(ctx context.Context, nonce string) (any, error) {
	assert.NotEmptyStr(nonce)

	loadError := func(err error) error {
		return fmt.Errorf("asl scraper: load stores: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetFormData(c.FormData(nonce)).
		Post(c.cfg.AjaxUrl())
	if err != nil {
		c.tel.ReportBroken(report_client_load_stores, fmt.Errorf("fetch: %w", err))
		return nil, loadError(err)
	}
	c.tel.ReportDebug("load stores status", res.StatusCode())

	if res.StatusCode() != 200 {
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode())
		c.tel.ReportBroken(report_client_load_stores, err)
		return nil, loadError(err)
	}

	data, err := decodeJSON(res.Body())
	if err != nil {
		c.tel.ReportBroken(
			report_client_load_stores,
			fmt.Errorf("%w: %v", ErrNotJSON, err),
			preview(res.Body()),
		)
		return nil, loadError(ErrNotJSON)
	}
	return data, nil
}

func decodeJSON(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var data any
	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}
	_, err = decoder.Token()
	if err != io.EOF {
		return nil, fmt.Errorf("trailing data after json value")
	}
	return data, nil
}

func preview(body []byte) string {
	if len(body) < previewLimit {
		return fmt.Sprintf("response preview: %s", body)
	}
	return "response too long to preview"
}
