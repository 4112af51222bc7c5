// Package domain contains the core data shapes of the shopping assistant:
// catalog products, interest signals, enriched wishlist items, shopping
// plans, conversation turns and controller decisions.
//
// Everything here is plain data. Behavior lives in the engines that
// consume these types (internal/matching, internal/planning,
// internal/conversation), keeping the domain layer dependency-free.
package domain
