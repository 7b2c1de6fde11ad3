// Package notify delivers scan artifacts and status messages to a Telegram
// chat through the Bot API, shelling out to curl. Delivery is best-effort:
// callers treat every failure as soft.
package notify
