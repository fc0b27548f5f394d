// Package loader загрузка картинок сегментов и центра колеса
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"prize_wheel/internal/model"
	"prize_wheel/pkg/fallback"
	"prize_wheel/pkg/token"

	"github.com/rs/zerolog"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 5 << 20
	DefaultProxyTTL = 5 * time.Minute
)

var (
	ErrUnsupportedScheme = errors.New("unsupported image url scheme")
	ErrNotImage          = errors.New("response is not an image")
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrBadStatus         = errors.New("unexpected response status")
	ErrCORSRejected      = errors.New("cross-origin load rejected")
	ErrNoProxy           = errors.New("image proxy is not configured")
	ErrBlockedAddress    = errors.New("address is not allowed")
)

// Options настройки загрузчика. Нулевые значения заменяются дефолтами
type Options struct {
	// ProxyURL адрес прокси, ссылка передается в параметре url
	ProxyURL string
	// Origin отправляется в заголовке Origin на CORS-попытке
	Origin   string
	// ProxySecret ключ подписи ссылок на прокси
	ProxySecret []byte
	ProxyTTL    time.Duration
	Timeout     time.Duration
	MaxBytes    int64
	// AllowPrivate разрешает loopback и внутренние сети, только для локальной разработки
	AllowPrivate bool
	// Client используется как есть, без фильтра адресов
	Client *http.Client
	Logger zerolog.Logger
}

// Loader грузит картинку по цепочке: напрямую, с CORS, через прокси
type Loader struct {
	client      *http.Client
	proxyClient *http.Client
	proxyURL    string
	proxySecret []byte
	proxyTTL    time.Duration
	origin      string
	timeout     time.Duration
	maxBytes    int64
	logger      zerolog.Logger
}

func New(opts Options) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.ProxyTTL <= 0 {
		opts.ProxyTTL = DefaultProxyTTL
	}

	client, proxyClient := opts.Client, opts.Client
	if client == nil {
		client = &http.Client{Transport: newTransport(opts.AllowPrivate)}
		// прокси свой и задан в конфиге, часто на localhost
		proxyClient = &http.Client{}
	}
	return &Loader{
		client:      client,
		proxyClient: proxyClient,
		proxyURL:    strings.TrimSpace(opts.ProxyURL),
		proxySecret: opts.ProxySecret,
		proxyTTL:    opts.ProxyTTL,
		origin:      opts.Origin,
		timeout:     opts.Timeout,
		maxBytes:    opts.MaxBytes,
		logger:      opts.Logger,
	}
}

// newTransport без прокси из окружения: адрес проверяется после резолва, на каждом соединении,
// включая редиректы
func newTransport(allowPrivate bool) *http.Transport {
	dialer := &net.Dialer{Timeout: DefaultTimeout, KeepAlive: 30 * time.Second}
	if !allowPrivate {
		dialer.Control = guardAddress
	}
	return &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

func guardAddress(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if blocked(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ap.Addr())
	}
	return nil
}

// 100.64.0.0/10 carrier-grade NAT, netip.Addr.IsPrivate его не покрывает
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func blocked(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsValid() ||
		addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		sharedAddressSpace.Contains(addr)
}

// Load data URI декодируется сразу, остальные ссылки идут по цепочке попыток.
// Ошибка возвращается только когда не сработала ни одна
func (l *Loader) Load(ctx context.Context, ref model.ImageRef) (image.Image, error) {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	if ref.IsDataURI() {
		return decodeDataURI(raw)
	}

	img, stage, err := fallback.TryInOrder(ctx,
		fallback.Attempt[image.Image]{Name: "direct", Run: func(ctx context.Context) (image.Image, error) {
			return l.direct(ctx, raw)
		}},
		fallback.Attempt[image.Image]{Name: "cors", Run: func(ctx context.Context) (image.Image, error) {
			return l.anonymousCORS(ctx, raw)
		}},
		fallback.Attempt[image.Image]{Name: "proxy", Run: func(ctx context.Context) (image.Image, error) {
			return l.viaProxy(ctx, raw)
		}},
	)
	if err != nil {
		l.logger.Debug().Str("url", raw).Err(err).Msg("image load failed")
		return nil, err
	}

	l.logger.Debug().Str("url", raw).Int("stage", stage).Msg("image loaded")
	return img, nil
}

// Fetch скачивает картинку и возвращает байты вместе с типом содержимого.
// Внутренние адреса отклоняются с ErrBlockedAddress
func (l *Loader) Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, string, http.Header, error) {
	return l.fetch(ctx, l.client, rawURL, header)
}

func (l *Loader) fetch(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, string, http.Header, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", nil, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	if resp.ContentLength > l.maxBytes {
		return nil, "", nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	// читаем на байт больше лимита, чтобы отличить ровно лимит от превышения
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, "", nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, "", nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.maxBytes)
	}

	contentType, err := imageContentType(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, "", nil, err
	}
	return body, contentType, resp.Header, nil
}

func (l *Loader) direct(ctx context.Context, rawURL string) (image.Image, error) {
	body, _, _, err := l.Fetch(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func (l *Loader) anonymousCORS(ctx context.Context, rawURL string) (image.Image, error) {
	h := http.Header{}
	if l.origin != "" {
		h.Set("Origin", l.origin)
	}
	body, _, respHeader, err := l.Fetch(ctx, rawURL, h)
	if err != nil {
		return nil, err
	}

	allowed := respHeader.Get("Access-Control-Allow-Origin")
	if allowed != "*" && (l.origin == "" || allowed != l.origin) {
		return nil, fmt.Errorf("%w: allow-origin %q", ErrCORSRejected, allowed)
	}
	return decode(body)
}

func (l *Loader) viaProxy(ctx context.Context, rawURL string) (image.Image, error) {
	if l.proxyURL == "" {
		return nil, ErrNoProxy
	}
	link, err := l.SignedProxyLink(rawURL)
	if err != nil {
		return nil, err
	}
	body, _, _, err := l.fetch(ctx, l.proxyClient, link, nil)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// SignedProxyLink ссылка на прокси с токеном, который прокси проверит
func (l *Loader) SignedProxyLink(rawURL string) (string, error) {
	if l.proxyURL == "" {
		return "", ErrNoProxy
	}
	tok, err := token.GenerateProxyToken(rawURL, l.proxySecret, l.proxyTTL)
	if err != nil {
		return "", fmt.Errorf("sign proxy link: %w", err)
	}
	return ProxyLink(l.proxyURL, rawURL, tok), nil
}

// ProxyLink ссылка на прокси для исходного адреса
func ProxyLink(proxyURL, rawURL, tok string) string {
	sep := "?"
	if strings.Contains(proxyURL, "?") {
		sep = "&"
	}
	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("token", tok)
	return proxyURL + sep + q.Encode()
}

func decodeDataURI(raw string) (image.Image, error) {
	du, err := dataurl.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	if du.MediaType.Type != "image" {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, du.MediaType.ContentType())
	}
	return decode(du.Data)
}

func decode(body []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	return img, nil
}

// imageContentType тип из заголовка, а если он не картиночный - по сигнатуре
func imageContentType(header string, body []byte) (string, error) {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt, nil
	}
	sniffed := http.DetectContentType(body)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotImage, header)
}
