package main

// ===============================
// In-page instrumentation
// ===============================

// Scripts evaluated inside the page. They only observe and collect; frame
// statistics are computed host-side (see stats.go) so the math is testable
// without a browser.

// navigationSnapshotJS reads the document's navigation-timing entry and all
// paint-timing entries. Returns a null navigation object when the entry does
// not exist yet; that is a valid "not yet available" result.
const navigationSnapshotJS = `
() => {
  const nav = performance.getEntriesByType('navigation')[0]
  const paints = performance.getEntriesByType('paint')
  const paintMap = {}
  for (const paint of paints) {
    paintMap[paint.name] = Number(paint.startTime.toFixed(3))
  }

  if (!nav) {
    return { navigation: null, paint: paintMap, route: window.location.pathname }
  }

  return {
    navigation: {
      unloadEventEnd: Number(nav.unloadEventEnd.toFixed(3)),
      redirectCount: nav.redirectCount,
      domainLookupStart: Number(nav.domainLookupStart.toFixed(3)),
      domainLookupEnd: Number(nav.domainLookupEnd.toFixed(3)),
      connectStart: Number(nav.connectStart.toFixed(3)),
      secureConnectionStart: Number(nav.secureConnectionStart.toFixed(3)),
      connectEnd: Number(nav.connectEnd.toFixed(3)),
      requestStart: Number(nav.requestStart.toFixed(3)),
      responseStart: Number(nav.responseStart.toFixed(3)),
      responseEnd: Number(nav.responseEnd.toFixed(3)),
      domInteractive: Number(nav.domInteractive.toFixed(3)),
      domContentLoadedEventStart: Number(nav.domContentLoadedEventStart.toFixed(3)),
      domContentLoadedEventEnd: Number(nav.domContentLoadedEventEnd.toFixed(3)),
      domComplete: Number(nav.domComplete.toFixed(3)),
      loadEventStart: Number(nav.loadEventStart.toFixed(3)),
      loadEventEnd: Number(nav.loadEventEnd.toFixed(3))
    },
    paint: paintMap,
    route: window.location.pathname
  }
}
`

// frameStampsJS schedules itself on every animation frame until the duration
// budget elapses and resolves with the raw frame timestamps. A single
// suspend point for the caller: the evaluate returns only after the window
// closes.
const frameStampsJS = `
async ({ durationMs }) => {
  const stamps = []
  return await new Promise((resolve) => {
    let start = null

    const step = (ts) => {
      if (start === null) {
        start = ts
      }
      stamps.push(ts)

      if (ts - start >= durationMs) {
        resolve({ stamps })
        return
      }

      requestAnimationFrame(step)
    }

    requestAnimationFrame(step)
  })
}
`

// transitionCaptureJS clicks the first visible element for a selector, polls
// for the expected path change (bounded by timeoutMs), and keeps collecting
// frame timestamps for at least sampleMs so post-navigation render cost is
// included. A missing visible target is reported as an error object; the
// host treats it as fatal.
const transitionCaptureJS = `
async ({ selector, expectedPath, sampleMs, timeoutMs, pollMs }) => {
  const isVisible = (el) => {
    if (!el) return false
    const style = window.getComputedStyle(el)
    if (!style) return false
    if (style.visibility === 'hidden' || style.display === 'none') return false
    return el.getClientRects().length > 0
  }

  const candidates = Array.from(document.querySelectorAll(selector))
  const target = candidates.find(isVisible) || null
  if (!target) {
    return { error: 'no visible transition target for selector: ' + selector }
  }

  const startPath = window.location.pathname
  const stamps = []
  let capturing = true

  const step = (ts) => {
    stamps.push(ts)
    if (capturing) {
      requestAnimationFrame(step)
    }
  }
  requestAnimationFrame(step)

  const navStart = performance.now()
  target.click()

  let navEnd = null
  const deadline = navStart + timeoutMs
  while (performance.now() < deadline) {
    if (window.location.pathname === expectedPath) {
      navEnd = performance.now()
      break
    }
    await new Promise((r) => setTimeout(r, pollMs))
  }

  const elapsed = performance.now() - navStart
  if (elapsed < sampleMs) {
    await new Promise((r) => setTimeout(r, sampleMs - elapsed))
  }

  capturing = false

  return {
    startPath: startPath,
    endPath: window.location.pathname,
    navigationDurationMs: navEnd !== null ? Number((navEnd - navStart).toFixed(3)) : null,
    reachedExpectedPath: window.location.pathname === expectedPath,
    stamps: stamps
  }
}
`

// pathEqualsJS and visibleSelectorJS back the route readiness gate.
const pathEqualsJS = `(path) => window.location.pathname === path`

const visibleSelectorJS = `
(sel) => {
  return Array.from(document.querySelectorAll(sel)).some((el) => {
    const style = window.getComputedStyle(el)
    if (!style) return false
    if (style.visibility === 'hidden' || style.display === 'none') return false
    return el.getClientRects().length > 0
  })
}
`

const currentPathJS = `() => window.location.pathname`
