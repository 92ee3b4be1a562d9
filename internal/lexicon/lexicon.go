// Package lexicon holds the canonical skill vocabulary, synonym/alias
// expansion, and condition-decomposition rules used to normalize job
// requirement phrases before scoring.
package lexicon

import "strings"

// jsKeepList holds tokens whose trailing ".js" must be preserved; every
// other canonical token has its ".js" suffix stripped.
var jsKeepList = map[string]bool{
	"next.js":    true,
	"vue.js":     true,
	"node.js":    true,
	"express.js": true,
	"nuxt.js":    true,
	"swiper.js":  true,
}

// canonical is the fixed ~120-token skill vocabulary, lower-cased.
var canonical = []string{
	"python", "java", "javascript", "typescript", "go", "golang", "rust", "c++", "c#", "php", "ruby", "kotlin", "swift",
	"react", "react.js", "next.js", "vue.js", "nuxt.js", "angular", "svelte", "jquery", "swiper.js",
	"node.js", "express.js", "nestjs", "django", "fastapi", "flask", "spring", "spring boot", "spring cloud",
	"android", "ios", "flutter", "react native",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform", "ci/cd", "jenkins", "github actions", "gitlab ci",
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle", "mariadb", "dynamodb", "cassandra",
	"sql", "nosql", "rdbms", "erd", "graphql", "rest api", "grpc", "websocket", "microservices", "kafka", "rabbitmq",
	"git", "linux", "nginx", "apache",
	"tensorflow", "pytorch", "opencv", "langchain", "langgraph", "scikit-learn", "pandas", "numpy",
	"html", "css", "sass", "tailwind css", "bootstrap",
	"junit", "jest", "pytest", "selenium", "cypress",
	"agile", "scrum", "jira", "confluence",
	"webpack", "vite", "babel",
	"oauth", "jwt", "openapi", "swagger",
	"figma", "sketch",
	"hadoop", "spark", "airflow", "kafka streams",
	"c", "objective-c", "dart", "scala", "r",
	"unity", "unreal engine",
	"blockchain", "solidity",
	"devops", "sre", "observability", "prometheus", "grafana",
}

// synonyms maps a canonical token to its set of alternate phrasings. Keys
// and values are matched as lower-cased substrings.
var synonyms = map[string][]string{
	"rest api": {"restful api", "api 연동", "openapi", "swagger", "엔드포인트", "api design", "api 설계"},
	"ci/cd":    {"배포 자동화", "pipeline", "github actions", "jenkins", "gitlab ci", "지속적 배포", "지속적 통합"},
	"sql":      {"데이터 모델링", "erd", "정규화", "인덱스", "트랜잭션", "rdbms", "쿼리 최적화"},
	"aws":      {"ec2", "s3", "lambda", "cloudfront", "rds"},
	"gcp":      {"gce", "bigquery", "cloud run"},
	"docker":   {"컨테이너", "containerization"},
}

// atomicSeparators split a raw condition phrase into independently
// judgeable sub-phrases.
var atomicSeparators = []string{"/", ",", "·", " 및 ", " and ", " 또는 ", " or "}

// NormalizeCondition splits phrase into its atomic sub-conditions, expands
// each via synonyms and rule augments, then deduplicates preserving
// first-seen order.
func NormalizeCondition(phrase string) []string {
	parts := atomicSplit(phrase)

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, p := range parts {
		add(p)
		lower := strings.ToLower(p)
		for canon, alts := range synonyms {
			if strings.Contains(lower, canon) {
				for _, a := range alts {
					add(a)
				}
			}
		}
		for _, extra := range ruleAugments(lower) {
			add(extra)
		}
	}
	return out
}

// atomicSplit breaks phrase on every separator in atomicSeparators.
func atomicSplit(phrase string) []string {
	pieces := []string{phrase}
	for _, sep := range atomicSeparators {
		var next []string
		for _, p := range pieces {
			next = append(next, strings.Split(p, sep)...)
		}
		pieces = next
	}
	trimmed := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	if len(trimmed) == 0 {
		return []string{phrase}
	}
	return trimmed
}

// ruleAugments implements the fixed "phrase contains api and integration
// keyword" and SQL/RDBMS/테스트 family augment rules.
func ruleAugments(lower string) []string {
	var extras []string
	if strings.Contains(lower, "api") && (strings.Contains(lower, "연동") || strings.Contains(lower, "설계")) {
		extras = append(extras, "REST API", "API 설계", "서비스 연동")
	}
	if strings.Contains(lower, "sql") || strings.Contains(lower, "rdbms") {
		extras = append(extras, "RDBMS", "쿼리 최적화", "ERD")
	}
	if strings.Contains(lower, "테스트") || strings.Contains(lower, "test") {
		extras = append(extras, "단위 테스트", "테스트 자동화")
	}
	return extras
}

// CanonicalizeToken lower-cases a skill token and strips a trailing ".js"
// suffix unless the token is in the keep-list.
func CanonicalizeToken(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if jsKeepList[lower] {
		return lower
	}
	if strings.HasSuffix(lower, ".js") {
		return strings.TrimSuffix(lower, ".js")
	}
	return lower
}

// Tokens returns the canonical skill vocabulary.
func Tokens() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

// TokensIn returns every canonical lexicon token that occurs as a
// substring of text (lower-cased match).
func TokensIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, t := range canonical {
		if strings.Contains(lower, t) {
			found = append(found, t)
		}
	}
	return found
}
