package api

import (
	"fmt"
	"sort"
)

// Resource names accepted by Resource.
const (
	ResourceReader          = "reader"
	ResourceItem            = "item"
	ResourceLocation        = "location"
	ResourceTag             = "tag"
	ResourceItemType        = "item_type"
	ResourceItemCategory    = "item_category"
	ResourceUser            = "user"
	ResourceUserProfile     = "user_profile"
	ResourceReadEvent       = "read_event"
	ResourceAlarmHistory    = "alarm_history"
	ResourceStockTake       = "stock_take"
	ResourceTransitRoute    = "transit_route"
	ResourceSystemConfig    = "system_config"
	ResourceEmailSubscriber = "email_subscriber"
	ResourceReaderProfile   = "reader_profile"
)

// basePaths maps each server-delegating resource to its mount point. The
// reader resource is handled by ReaderAdapter and is not listed.
var basePaths = map[string]string{
	ResourceItem:            "/item",
	ResourceLocation:        "/location",
	ResourceTag:             "/tag",
	ResourceItemType:        "/item_type",
	ResourceItemCategory:    "/item_category",
	ResourceUser:            "/user",
	ResourceUserProfile:     "/user_profile",
	ResourceReadEvent:       "/read_event",
	ResourceAlarmHistory:    "/alarm_history",
	ResourceStockTake:       "/stock_take",
	ResourceTransitRoute:    "/transit_route",
	ResourceSystemConfig:    "/system_config",
	ResourceEmailSubscriber: "/email_subscriber",
	ResourceReaderProfile:   "/reader_profile",
}

// BasePath returns the mount point of a server-delegating resource.
func BasePath(name string) (string, error) {
	p, ok := basePaths[name]
	if !ok {
		return "", fmt.Errorf("unknown resource %q", name)
	}
	return p, nil
}

// ResourceNames lists every resource, reader included, sorted.
func ResourceNames() []string {
	out := make([]string, 0, len(basePaths)+1)
	out = append(out, ResourceReader)
	for n := range basePaths {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
