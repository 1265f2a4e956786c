package chromedp_renderer

import (
	"fmt"

	"github.com/user/ad-intel-service/internal/detect"
)

// markerCountScript counts every element whose text contains the start
// marker. The count is inflated by nested elements repeating ancestor
// text; callers divide it down to estimate loaded cards.
func markerCountScript() string {
	return fmt.Sprintf(`(() => {
	const marker = %q;
	let count = 0;
	for (const el of document.querySelectorAll('div, span')) {
		if (el.textContent && el.textContent.includes(marker)) count++;
	}
	return count;
})()`, detect.StartMarker)
}

// collectCandidatesScript snapshots every plausible marker element along
// with its ancestor chain. Node identities are assigned lazily via a
// page-global counter so repeated snapshots reuse the same ids.
func collectCandidatesScript() string {
	return fmt.Sprintf(`(() => {
	const marker = %q;
	const maxTextLen = %d;
	const maxWalk = %d;

	window.__adNodeSeq = window.__adNodeSeq || 0;
	const nodeId = (el) => {
		if (!el.__adNodeId) el.__adNodeId = ++window.__adNodeSeq;
		return el.__adNodeId;
	};

	const serialize = (el) => {
		const r = el.getBoundingClientRect();
		const links = [];
		for (const a of el.querySelectorAll('a[href]')) {
			if (links.length >= 40) break;
			links.push({
				text: (a.textContent || '').trim().slice(0, 100),
				href: (a.href || '').slice(0, 600),
			});
		}
		const buttons = [];
		for (const b of el.querySelectorAll('button, [role="button"]')) {
			if (buttons.length >= 20) break;
			const t = (b.textContent || '').trim();
			if (t) buttons.push(t.slice(0, 100));
		}
		const ariaLabels = [];
		for (const n of el.querySelectorAll('[aria-label]')) {
			if (ariaLabels.length >= 30) break;
			const v = n.getAttribute('aria-label');
			if (v) ariaLabels.push(v.slice(0, 100));
		}
		return {
			nodeId: nodeId(el),
			rect: {
				top: r.top + window.scrollY,
				left: r.left + window.scrollX,
				width: r.width,
				height: r.height,
			},
			imageCount: el.querySelectorAll('img').length,
			hasVideo: !!el.querySelector('video'),
			ariaLabels: ariaLabels,
			text: (el.textContent || '').slice(0, 4000),
			links: links,
			buttons: buttons,
		};
	};

	const candidates = [];
	for (const el of document.querySelectorAll('div, span')) {
		const text = el.textContent || '';
		if (!text.includes(marker) || text.length >= maxTextLen) continue;

		const ancestors = [];
		let cur = el;
		for (let depth = 0; cur && depth <= maxWalk; depth++) {
			ancestors.push(serialize(cur));
			cur = cur.parentElement;
		}
		candidates.push({ ancestors: ancestors });
	}
	return candidates;
})()`, detect.StartMarker, detect.MaxMarkerTextLen, detect.MaxAncestorWalk)
}

// tightBoundsScript re-locates the inner ad preview near an expected
// absolute top position after scrolling, returning a page-coordinate
// rect suitable for a close-cropped screenshot clip.
func tightBoundsScript(expectedTop float64) string {
	return fmt.Sprintf(`(() => {
	const expectedTop = %.0f;
	const sponsored = %q;
	const started = %q;
	const libraryId = %q;

	for (const el of document.querySelectorAll('div')) {
		const r = el.getBoundingClientRect();
		const top = r.top + window.scrollY;
		if (Math.abs(top - expectedTop) > 200) continue;
		if (r.width < 300 || r.width > 700) continue;
		if (r.height < 200 || r.height > 800) continue;
		const text = el.textContent || '';
		if (!(text.includes(sponsored) && (text.includes(started) || text.includes(libraryId)))) continue;
		return {
			found: true,
			top: top,
			left: r.left + window.scrollX,
			width: r.width,
			height: r.height,
		};
	}
	return { found: false, top: 0, left: 0, width: 0, height: 0 };
})()`, expectedTop, detect.SponsoredMarker, detect.StartMarker, detect.LibraryIDMarker)
}
