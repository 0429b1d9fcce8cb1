// Package sheep polls the cninfo disclosure search for 股东回馈 (shareholder
// feedback) announcements and pushes the newest one to configured chats
// once per day.
//
// The pipeline is: fetch the search JSON, validate and pick the entry with
// the highest announcementTime, gate it against today's date and the last
// delivered id, then format and send. Dedup state is in-memory only and
// resets on restart; the optional history store records deliveries but is
// never consulted for dedup.
package sheep
