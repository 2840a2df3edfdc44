package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/repositories"
	"tryon-studio/internal/domain/valueobjects"
)

const (
	maxPageSize       = 5 * 1024 * 1024
	minLargeImageSide = 300
)

// PageResolver fetches a product page and downloads its main product image.
type PageResolver struct {
	client *resty.Client
	images repositories.ImageFetcher
}

func NewPageResolver(client *resty.Client, images repositories.ImageFetcher) *PageResolver {
	if client == nil {
		client = NewHTTPClient(DefaultFetchTimeout)
	}
	if images == nil {
		images = NewHTTPImageFetcher(client)
	}
	return &PageResolver{client: client, images: images}
}

func (r *PageResolver) Resolve(ctx context.Context, pageURL string) (valueobjects.ImageRef, error) {
	if strings.TrimSpace(pageURL) == "" {
		return valueobjects.ImageRef{}, domain.ErrEmptyURL
	}
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return valueobjects.ImageRef{}, fmt.Errorf("invalid product url %q", pageURL)
	}

	res, err := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		Get(base.String())
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to fetch product page: %w", err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.IsError() {
		return valueobjects.ImageRef{}, fmt.Errorf("request failed: GET %s (status: %d)", base, res.StatusCode())
	}

	imageURL, err := ExtractProductImageURL(io.LimitReader(body, maxPageSize), base)
	if err != nil {
		return valueobjects.ImageRef{}, err
	}
	if imageURL == "" {
		return valueobjects.ImageRef{}, nil
	}
	log.Debug().Str("page", base.String()).Str("image", imageURL).Msg("product image found")

	remote, err := valueobjects.NewRemoteRef(imageURL)
	if err != nil {
		return valueobjects.ImageRef{}, err
	}
	imageData, err := r.images.Fetch(ctx, remote)
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to download product image: %w", err)
	}
	return imageData.Ref(), nil
}

// ExtractProductImageURL picks the product image of an HTML page in priority
// order: og:image meta tag, schema.org Product image in JSON-LD, then the first
// <img> whose declared width and height are both at least 300px. The result is
// resolved against base. An empty string means no candidate was found.
func ExtractProductImageURL(r io.Reader, base *url.URL) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse product page: %w", err)
	}

	var ogImage, ldImage, largeImage string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if ogImage == "" {
					prop := strings.ToLower(attr(n, "property"))
					if prop == "og:image" || prop == "og:image:url" || prop == "og:image:secure_url" {
						ogImage = strings.TrimSpace(attr(n, "content"))
					}
				}
			case "script":
				if ldImage == "" && strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") && n.FirstChild != nil {
					ldImage = productImageFromJSONLD(n.FirstChild.Data)
				}
			case "img":
				if largeImage == "" && isLargeImage(n) {
					largeImage = strings.TrimSpace(attr(n, "src"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, candidate := range []string{ogImage, ldImage, largeImage} {
		if candidate == "" {
			continue
		}
		resolved, err := resolveURL(base, candidate)
		if err != nil {
			continue
		}
		return resolved, nil
	}
	return "", nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func isLargeImage(n *html.Node) bool {
	w, okW := pixels(attr(n, "width"))
	h, okH := pixels(attr(n, "height"))
	return okW && okH && w >= minLargeImageSide && h >= minLargeImageSide && attr(n, "src") != ""
}

func pixels(v string) (int, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func resolveURL(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported image url scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// productImageFromJSONLD returns the first image of a schema.org Product found
// anywhere in the JSON-LD document, including @graph containers.
func productImageFromJSONLD(raw string) string {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ""
	}
	return findProductImage(doc)
}

func findProductImage(v any) string {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if img := findProductImage(item); img != "" {
				return img
			}
		}
	case map[string]any:
		if isProductType(node["@type"]) {
			if img := imageValue(node["image"]); img != "" {
				return img
			}
		}
		for _, key := range []string{"@graph", "mainEntity", "itemListElement"} {
			if child, ok := node[key]; ok {
				if img := findProductImage(child); img != "" {
					return img
				}
			}
		}
	}
	return ""
}

func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Product") || strings.HasSuffix(t, "/Product")
	case []any:
		for _, item := range t {
			if isProductType(item) {
				return true
			}
		}
	}
	return false
}

func imageValue(v any) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case []any:
		for _, item := range img {
			if s := imageValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		if s, ok := img["url"].(string); ok {
			return strings.TrimSpace(s)
		}
		if s, ok := img["contentUrl"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
