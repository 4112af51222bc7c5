/*
Package cesta is a shopping-assistant orchestrator built around a small
workflow graph engine.

It has two operating modes. Batch mode ingests interest signals (social
saves and abandoned carts), matches them against a marketplace catalog
and produces a budget-constrained shopping plan. Interactive mode runs a
conversational loop that classifies user utterances into intents and
dispatches canned responses, catalog searches, or session termination.

The engines are deterministic and work without any external capability:
LLM-backed classification, save analysis and purchase advisories are
optional refinements that degrade gracefully when unconfigured or
failing.

The cmd/cesta binary exposes the batch planner, the chat loop, catalog
search, an HTTP API and an MCP server. The public packages under pkg/
can be embedded directly: pkg/catalog for filtering, pkg/registry for
tool dispatch, and pkg/adapters for the data and capability backends.
*/
package cesta

// Version is the release version of the module.
const Version = "0.2.0"
