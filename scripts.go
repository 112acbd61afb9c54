package declpdf

// installScript defines window.__declpdf in the loaded template. Every
// later call goes through it so the DOM contract lives in one place.
const installScript = `() => {
  const style = document.createElement('style');
  style.textContent =
    'html, body { margin: 0; padding: 0; }' +
    'document-page, page-header, page-footer, page-background, page-body, physical-page { display: block; }';
  document.head.appendChild(style);

  const touched = new Set();
  const show = (el, visible) => {
    touched.add(el);
    el.style.setProperty('display', visible ? 'block' : 'none', 'important');
  };
  const pages = () => Array.from(document.querySelectorAll('document-page'));
  const children = (el, tag) => Array.from(el.children).filter(c => c.localName === tag);
  const attr = (el, name) => el && el.hasAttribute(name) ? el.getAttribute(name) : null;

  const measure = (el) => {
    const r = el.getBoundingClientRect();
    return Math.ceil(r.height);
  };

  const setting = (el, index, select) => ({
    height: measure(el),
    hasCurrentPageNumber: el.querySelector('current-page-number') !== null,
    hasTotalPagesNumber: el.querySelector('total-pages-number') !== null,
    physicalPageIndex: index,
    select: select,
  });

  const collect = (page, tag) => {
    const out = [];
    for (const section of children(page, tag)) {
      const variants = children(section, 'physical-page');
      if (variants.length === 0) {
        out.push(setting(section, 0, null));
        continue;
      }
      const rest = Array.from(section.childNodes).filter(n =>
        !(n.nodeType === Node.ELEMENT_NODE && n.localName === 'physical-page') &&
        !(n.nodeType === Node.TEXT_NODE && n.textContent.trim() === '') &&
        n.nodeType !== Node.COMMENT_NODE);
      if (rest.length > 0) {
        out.push(setting(section, 0, null));
      }
      variants.forEach((v, i) => out.push(setting(v, i, attr(v, 'select') || '')));
    }
    return out;
  };

  window.__declpdf = {
    discover() {
      return pages().map((page, index) => {
        const body = children(page, 'page-body')[0] || null;
        return {
          index: index,
          size: attr(page, 'size'),
          orientation: attr(page, 'orientation'),
          ppi: attr(page, 'ppi'),
          width: attr(page, 'width'),
          height: attr(page, 'height'),
          marginTop: attr(body, 'margin-top'),
          marginBottom: attr(body, 'margin-bottom'),
          hasSections: ['page-header', 'page-footer', 'page-background']
            .some(tag => children(page, tag).length > 0),
        };
      });
    },

    sections(index) {
      const page = pages()[index];
      if (!page) {
        return null;
      }
      this.reset();
      pages().forEach((p, i) => show(p, i === index));
      const out = {
        headers: collect(page, 'page-header'),
        footers: collect(page, 'page-footer'),
        backgrounds: collect(page, 'page-background'),
        duplicates: ['page-header', 'page-footer', 'page-background']
          .filter(tag => children(page, tag).length > 1),
      };
      this.reset();
      return out;
    },

    isolate(req) {
      const all = pages();
      const page = all[req.documentPageIndex];
      if (!page) {
        return false;
      }
      const target = children(page, 'page-' + req.section)[0];
      if (!target) {
        return false;
      }
      all.forEach(p => show(p, p === page));
      Array.from(page.children).forEach(c => show(c, c === target));

      const variants = children(target, 'physical-page');
      if (req.hasPhysicalPage) {
        const chosen = variants[req.physicalPageIndex];
        if (!chosen) {
          return false;
        }
        Array.from(target.children).forEach(c => show(c, c === chosen));
      }

      const scope = req.hasPhysicalPage ? variants[req.physicalPageIndex] : target;
      if (req.currentPageNumber > 0) {
        scope.querySelectorAll('current-page-number')
          .forEach(e => { e.textContent = String(req.currentPageNumber); });
      }
      if (req.totalPagesNumber > 0) {
        scope.querySelectorAll('total-pages-number')
          .forEach(e => { e.textContent = String(req.totalPagesNumber); });
      }
      return true;
    },

    reset() {
      touched.forEach(el => el.style.removeProperty('display'));
      touched.clear();
      return true;
    },

    transparent(on) {
      for (const el of [document.documentElement, document.body]) {
        if (on) {
          el.style.setProperty('background', 'transparent', 'important');
        } else {
          el.style.removeProperty('background');
        }
      }
      return true;
    },
  };
  return true;
}`

const (
	discoverScript    = `() => window.__declpdf.discover()`
	sectionsScript    = `(index) => window.__declpdf.sections(index)`
	isolateScript     = `(req) => window.__declpdf.isolate(req)`
	resetScript       = `() => window.__declpdf.reset()`
	transparentScript = `(on) => window.__declpdf.transparent(on)`
)
