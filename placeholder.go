package namedbind

import (
	"crypto/sha256"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/coderi421/namedbind/internal/errs"
)

// placeholderPattern 冒号后面跟一个或者多个字母、数字、下划线
const placeholderPattern = `:[a-zA-Z0-9_]+`

const defaultParseCacheSize = 512

var placeholderRegexp = sync.OnceValues(func() (*regexp.Regexp, error) {
	return regexp.Compile(placeholderPattern)
})

// parseCache 缓存解析结果，key 是 dialect 名字 + 模板的摘要
// 缓存里面只有替换之后的 SQL，不保留原始模板
// 创建失败的时候为 nil，只是不缓存而已
var parseCache = newParseCache(defaultParseCacheSize)

func newParseCache(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		slog.Warn("namedbind: failed to create parse cache, templates will not be cached", "err", err)
		return nil
	}
	return c
}

type cacheKey struct {
	dialect string
	sum     [sha256.Size]byte
}

// Parsed is a template with every named placeholder replaced by the
// dialect's positional marker.
type Parsed struct {
	SQL string
	// Order holds the placeholder names, colon included, in the order they
	// appear. Duplicates are kept.
	Order []string
}

func (p *Parsed) clone() *Parsed {
	order := make([]string, len(p.Order))
	copy(order, p.Order)
	return &Parsed{SQL: p.SQL, Order: order}
}

// Parse scans template for :name placeholders.
//
// The scan is purely textual. Placeholder-shaped text inside string literals,
// comments or casts such as a::int is replaced as well.
func Parse(template string, d Dialect) (*Parsed, error) {
	if d == nil {
		d = MySQL
	}

	key := cacheKey{dialect: d.Name(), sum: sha256.Sum256([]byte(template))}
	if parseCache != nil {
		if v, ok := parseCache.Get(key); ok {
			return v.(*Parsed).clone(), nil
		}
	}

	re, err := placeholderRegexp()
	if err != nil {
		return nil, errs.NewErrTemplateParse(err)
	}

	locs := re.FindAllStringIndex(template, -1)
	order := make([]string, 0, len(locs))

	var sb strings.Builder
	sb.Grow(len(template))
	last := 0
	for i, loc := range locs {
		sb.WriteString(template[last:loc[0]])
		sb.WriteString(d.placeholder(i))
		order = append(order, template[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(template[last:])

	p := &Parsed{SQL: sb.String(), Order: order}
	if parseCache != nil {
		parseCache.Add(key, p)
	}
	return p.clone(), nil
}
