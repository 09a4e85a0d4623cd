// Package config holds the calendars configuration store and the runtime
// settings.
//
// The calendars file maps account ids to the calendars fetched for them:
//
//	{
//	    "work": {
//	        "primary": "Work",
//	        "ja.japanese#holiday@group.v.calendar.google.com": "日本の祝日"
//	    }
//	}
//
// It is created by add-token and edited by hand afterwards.
//
// Runtime settings come from flags, then YOTEI_* environment variables,
// optionally seeded from an env file.
package config
