// Package timezone pins the hotel's wall clock.
//
// The location comes from APP_TIMEZONE (an IANA name such as "Asia/Taipei") and is loaded once.
// Everything that asks "what day is it" goes through here: checkout matching in the task generator,
// the default lookback window and the X-WR-TIMEZONE of exported calendars. Timestamps such as
// created_at or completed_at use Now; calendar comparisons use Today, which returns the local date as
// a UTC midnight so it compares equal to DATE columns scanned by lib/pq.
package timezone
