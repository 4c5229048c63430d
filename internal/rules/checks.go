package rules

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// deprecatedTags lists markup with no place in modern documents.
// One issue is reported per tag type that occurs at least once.
var deprecatedTags = []string{"center", "font", "strike", "u", "marquee", "blink"}

// eventAttributes lists the inline JavaScript handlers the catalog flags.
var eventAttributes = []string{"onclick", "onload", "onsubmit", "onmouseover"}

// unlabeledInputExceptions are input types that need no associated label.
var unlabeledInputExceptions = map[string]bool{
	"submit": true,
	"button": true,
	"hidden": true,
}

// attrValue returns the attribute value, with a missing attribute and an
// empty one both collapsing to "". Rules that care about presence alone
// use [attr] selectors instead.
func attrValue(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// checkEmptyContainers flags div/p/span/a elements with no child content
// at all and none of the href, id, or class attributes carrying a value.
// Such elements are usually editing leftovers.
func checkEmptyContainers(doc *goquery.Document) []string {
	issues := make([]string, 0)
	doc.Find("div, p, span, a").Each(func(_ int, s *goquery.Selection) {
		if s.Get(0).FirstChild != nil {
			return
		}
		if attrValue(s, "href") != "" || attrValue(s, "id") != "" || attrValue(s, "class") != "" {
			return
		}
		issues = append(issues, fmt.Sprintf("Empty %s tag found", goquery.NodeName(s)))
	})
	return issues
}

// checkImages flags images without alt text and images without a source.
// Both issues may fire for the same element.
func checkImages(doc *goquery.Document) []string {
	issues := make([]string, 0)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := attrValue(s, "src")
		if attrValue(s, "alt") == "" {
			source := src
			if source == "" {
				source = "unknown source"
			}
			issues = append(issues, fmt.Sprintf("Image missing alt text: %s", source))
		}
		if src == "" {
			issues = append(issues, "Image missing src attribute")
		}
	})
	return issues
}

// checkDuplicateIDs flags every repeat occurrence of an id value.
// The first occurrence is recorded; each later one emits an issue.
// The tracking map is scoped to this call, never shared.
func checkDuplicateIDs(doc *goquery.Document) []string {
	issues := make([]string, 0)
	seen := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id := attrValue(s, "id")
		if seen[id] {
			issues = append(issues, fmt.Sprintf("Duplicate ID found: %s", id))
		}
		seen[id] = true
	})
	return issues
}

// checkHeadingHierarchy flags a missing h1 and any heading that jumps more
// than one level past the previous heading in document order. The previous
// level starts at 0 and is updated after every heading, skipped or not.
func checkHeadingHierarchy(doc *goquery.Document) []string {
	issues := make([]string, 0)
	if doc.Find("h1").Length() == 0 {
		issues = append(issues, "No H1 heading found")
	}

	prev := 0
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		if level > prev+1 {
			issues = append(issues, fmt.Sprintf("Heading level skipped: from h%d to h%d", prev, level))
		}
		prev = level
	})
	return issues
}

// checkDeprecatedTags flags deprecated markup, one issue per tag type with
// the instance count.
func checkDeprecatedTags(doc *goquery.Document) []string {
	issues := make([]string, 0)
	for _, tag := range deprecatedTags {
		if count := doc.Find(tag).Length(); count > 0 {
			issues = append(issues, fmt.Sprintf("Deprecated tag found: %s (%d instances)", tag, count))
		}
	}
	return issues
}

// checkForms flags forms without an action and inputs without an
// associated label. An input counts as labeled when it carries a label
// attribute or when any label element in the document has a for value
// equal to the input's id.
func checkForms(doc *goquery.Document) []string {
	issues := make([]string, 0)

	labelFor := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		labelFor[attrValue(s, "for")] = true
	})

	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		if attrValue(form, "action") == "" {
			issues = append(issues, "Form missing action attribute")
		}

		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			if unlabeledInputExceptions[attrValue(input, "type")] {
				return
			}
			if attrValue(input, "label") != "" || labelFor[attrValue(input, "id")] {
				return
			}
			name := attrValue(input, "name")
			if name == "" {
				name = "unnamed input"
			}
			issues = append(issues, fmt.Sprintf("Input missing associated label: %s", name))
		})
	})
	return issues
}

// checkMetaTags flags missing viewport and description meta tags.
// Name values are compared lower-cased.
func checkMetaTags(doc *goquery.Document) []string {
	issues := make([]string, 0)

	names := make(map[string]bool)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		names[strings.ToLower(attrValue(s, "name"))] = true
	})

	if !names["viewport"] {
		issues = append(issues, "Missing viewport meta tag")
	}
	if !names["description"] {
		issues = append(issues, "Missing description meta tag")
	}
	return issues
}

// checkEncoding flags documents with no meta element carrying a charset
// attribute. Presence is enough; the declared value is not validated.
func checkEncoding(doc *goquery.Document) []string {
	if doc.Find("meta[charset]").Length() == 0 {
		return []string{"No character encoding declared"}
	}
	return nil
}

// checkInlineStyles flags inline style attributes with a single counted
// issue when any exist.
func checkInlineStyles(doc *goquery.Document) []string {
	if count := doc.Find("[style]").Length(); count > 0 {
		return []string{fmt.Sprintf("Found %d inline style attributes", count)}
	}
	return nil
}

// checkEventHandlers flags inline JavaScript event attributes, one counted
// issue per attribute type that occurs.
func checkEventHandlers(doc *goquery.Document) []string {
	issues := make([]string, 0)
	for _, attr := range eventAttributes {
		if count := doc.Find("[" + attr + "]").Length(); count > 0 {
			issues = append(issues, fmt.Sprintf("Found %d inline JavaScript %s attributes", count, attr))
		}
	}
	return issues
}

// checkLists flags lists with no li descendants and lists with direct
// child elements that are not li. The non-li issue fires once per
// offending list regardless of how many bad children it has.
func checkLists(doc *goquery.Document) []string {
	issues := make([]string, 0)
	doc.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		if s.Find("li").Length() == 0 {
			issues = append(issues, fmt.Sprintf("Empty %s list found", goquery.NodeName(s)))
		}

		nonLi := false
		s.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
			if goquery.NodeName(child) != "li" {
				nonLi = true
				return false
			}
			return true
		})
		if nonLi {
			issues = append(issues, "List contains non-li elements")
		}
	})
	return issues
}

// checkTables flags tables without headers (no thead and no th anywhere
// inside) and tables without a tbody.
func checkTables(doc *goquery.Document) []string {
	issues := make([]string, 0)
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		if s.Find("thead").Length() == 0 && s.Find("th").Length() == 0 {
			issues = append(issues, "Table missing headers")
		}
		if s.Find("tbody").Length() == 0 {
			issues = append(issues, "Table missing tbody")
		}
	})
	return issues
}
