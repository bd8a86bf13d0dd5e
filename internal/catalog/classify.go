package catalog

import (
	"fmt"
	"iter"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"golang.org/x/text/cases"
)

type Channel string

const (
	ChannelGeneral   Channel = "general"
	ChannelPack      Channel = "pack"
	ChannelOrderOnly Channel = "order-only"
)

// ParseChannel accepts the canonical names and the storefront route aliases.
// An empty value selects the general channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "all":
		return ChannelGeneral, nil
	case "pack", "packs":
		return ChannelPack, nil
	case "order-only", "sur-commande":
		return ChannelOrderOnly, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownChannel, s)
	}
}

// fold case-folds s. A Caser keeps state, so a fresh one is taken per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// InChannel reports whether p is exposed through ch.
func InChannel(p model.Product, ch Channel) bool {
	switch ch {
	case ChannelOrderOnly:
		return p.IsOrderBased
	case ChannelPack:
		if p.IsOrderBased {
			return false
		}
		return strings.Contains(fold(p.Name), "pack") || fold(strings.TrimSpace(p.Category)) == "pack"
	case ChannelGeneral:
		return !p.IsOrderBased
	default:
		return false
	}
}

// MatchesQuery is a case-insensitive substring test on the product name.
// Only an empty query matches everything; whitespace is matched as typed.
func MatchesQuery(p model.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(fold(p.Name), fold(query))
}

// ClassifySeq lazily yields the products of ch that match query, preserving input order.
func ClassifySeq(products []model.Product, ch Channel, query string) iter.Seq[model.Product] {
	return func(yield func(model.Product) bool) {
		for _, p := range products {
			if !InChannel(p, ch) || !MatchesQuery(p, query) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func Classify(products []model.Product, ch Channel, query string) []model.Product {
	out := make([]model.Product, 0, len(products))
	for p := range ClassifySeq(products, ch, query) {
		out = append(out, p)
	}
	return out
}
