package public

import (
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
)

// redactWorkItems strips assignee information from response copies.
func redactWorkItems(items []workitemdomain.Response) []workitemdomain.Response {
	out := make([]workitemdomain.Response, len(items))
	for i, item := range items {
		item.AssignedTo = nil
		out[i] = item
	}
	return out
}

// redactFeedItem removes assignedTo from the snapshot's top level and from
// content.current on update-shaped payloads. The stored row keeps the field;
// only the outgoing copy is touched.
func redactFeedItem(item feeddomain.Response) feeddomain.Response {
	if item.Content == nil {
		return item
	}

	content := make(map[string]any, len(item.Content))
	for k, v := range item.Content {
		content[k] = v
	}
	delete(content, "assignedTo")

	if current, ok := content["current"].(map[string]any); ok {
		cp := make(map[string]any, len(current))
		for k, v := range current {
			cp[k] = v
		}
		delete(cp, "assignedTo")
		content["current"] = cp
	}

	item.Content = content
	return item
}
