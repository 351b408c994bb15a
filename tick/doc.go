// The tick subpackage defines the per-frame event [Source] consumed by
// ikona's load scheduler and eviction coordinator, plus [Nexus], a minimal
// single-threaded implementation meant to be driven from a game's Update
// method.
//
// The cache never spins its own timers for admission decisions; everything
// frame-paced goes through a Source so that texture uploads and disposals
// stay aligned with the game loop.
package tick
